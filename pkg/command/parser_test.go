package command

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		expect Command
	}{
		{"ping", "PING", Command{Kind: Ping}},
		{"help", "HELP", Command{Kind: Help}},
		{"temp", "TEMP", Command{Kind: Temp}},
		{"led on", "LED ON", Command{Kind: Led, On: true}},
		{"led off", "LED OFF", Command{Kind: Led}},
		{"get", "GET 7", Command{Kind: Get, Pin: 7}},
		{"get two digits", "GET 12", Command{Kind: Get, Pin: 12}},
		{"set high", "SET 7,HIGH", Command{Kind: Set, Pin: 7, Level: true}},
		{"set low", "SET 12,LOW", Command{Kind: Set, Pin: 12}},
		{"pwm", "PWM 128", Command{Kind: Pwm, Duty: 128}},
		{"pwm max", "PWM 255", Command{Kind: Pwm, Duty: 255}},
		{"adc", "ADC 0", Command{Kind: Adc, Pin: 0}},
		{"adc max", "ADC 5", Command{Kind: Adc, Pin: 5}},
		{"move", "MOVE 1,90", Command{
			Kind:       Move,
			Targets:    [MaxMoveTargets]MoveTarget{{Channel: 1, Angle: 90}},
			NumTargets: 1,
		}},
		{"move multi", "MOVE 1,90,2,45,0,180", Command{
			Kind: Move,
			Targets: [MaxMoveTargets]MoveTarget{
				{Channel: 1, Angle: 90}, {Channel: 2, Angle: 45}, {Channel: 0, Angle: 180},
			},
			NumTargets: 3,
		}},
		{"stop", "STOP 2", Command{Kind: Stop, Channel: 2}},
		{"stop grammar-valid channel", "STOP 9", Command{Kind: Stop, Channel: 9}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, err := Parse([]byte(tc.in))
			require.Nil(t, err)
			require.Equal(t, tc.expect, cmd)

			// parsing is pure: the same bytes parse identically again
			again, err := Parse([]byte(tc.in))
			require.Nil(t, err)
			require.Equal(t, cmd, again)
		})
	}
}

func TestParseErrors(t *testing.T) {
	testCases := []struct {
		name   string
		in     string
		code   Code
		offset int
	}{
		{"empty frame", "", CodeVerb, 0},
		{"unknown verb", "FOO", CodeVerb, 0},
		{"lower case verb", "ping", CodeVerb, 0},
		{"verb prefix", "PIN", CodeVerb, 0},
		{"missing led arg", "LED", CodeArg, 3},
		{"bad led arg", "LED BLUE", CodeArg, 4},
		{"missing move args", "MOVE", CodeArg, 4},
		{"missing get arg", "GET", CodeArg, 3},
		{"non-numeric pin", "GET x", CodeArg, 4},
		{"angle out of range", "MOVE 1,999", CodeRange, 7},
		{"duty out of range", "PWM 256", CodeRange, 4},
		{"adc pin out of range", "ADC 6", CodeRange, 4},
		{"missing set level", "SET 7", CodeArg, 5},
		{"missing set comma", "SET 7 HIGH", CodeArg, 5},
		{"dangling move comma", "MOVE 1,90,", CodeArg, 10},
		{"too many move targets", "MOVE 1,1,2,2,3,3,4,4,5,5", CodeRange, 21},
		{"trailing garbage", "PING extra", CodeTrail, 5},
		{"trailing after args", "STOP 1 2", CodeTrail, 6},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.in))
			require.NotNil(t, err)
			require.Equal(t, tc.code, err.Code, "got %v", err)
			require.Equal(t, tc.offset, err.Offset, "got %v", err)
		})
	}
}

// A committed verb never reparses as a different verb: a malformed STOP
// argument reports against STOP's grammar even though the bytes could
// open some other token.
func TestParseCommittedVerb(t *testing.T) {
	_, err := Parse([]byte("STOP HIGH"))
	require.NotNil(t, err)
	require.Equal(t, CodeArg, err.Code)
	require.Equal(t, 5, err.Offset)
}

func TestCanonicalRoundTrip(t *testing.T) {
	testCases := []Command{
		{Kind: Ping},
		{Kind: Help},
		{Kind: Temp},
		{Kind: Led, On: true},
		{Kind: Led},
		{Kind: Get, Pin: 12},
		{Kind: Set, Pin: 7, Level: true},
		{Kind: Set, Pin: 8},
		{Kind: Pwm, Duty: 200},
		{Kind: Adc, Pin: 3},
		{Kind: Move, Targets: [MaxMoveTargets]MoveTarget{{1, 90}, {2, 45}}, NumTargets: 2},
		{Kind: Stop, Channel: 3},
	}

	for _, cmd := range testCases {
		t.Run(cmd.String(), func(t *testing.T) {
			parsed, err := Parse(cmd.AppendText(nil))
			require.Nil(t, err)
			require.Equal(t, cmd, parsed)
		})
	}
}

func TestErrorCodes(t *testing.T) {
	require.Equal(t, "VERB", CodeVerb.String())
	require.Equal(t, "ARG", CodeArg.String())
	require.Equal(t, "RANGE", CodeRange.String())
	require.Equal(t, "TRAIL", CodeTrail.String())
	require.Equal(t, "parse error RANGE at offset 4", errAt(CodeRange, 4).Error())
}
