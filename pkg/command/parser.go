package command

// Parse parses one frame (terminator already stripped) into a Command.
// It is a pure function: the same bytes always yield the same result.
func Parse(in []byte) (Command, *Error) {
	var cmd Command
	verb, pos := splitVerb(in)
	switch string(verb) {
	case "PING":
		cmd.Kind = Ping
	case "HELP":
		cmd.Kind = Help
	case "TEMP":
		cmd.Kind = Temp
	case "LED":
		cmd.Kind = Led
		n, on, err := enum(in, pos, "ON", "OFF")
		if err != nil {
			return cmd, err
		}
		pos, cmd.On = n, on
	case "GET":
		cmd.Kind = Get
		n, v, err := number(in, pos, MaxPin)
		if err != nil {
			return cmd, err
		}
		pos, cmd.Pin = n, uint8(v)
	case "SET":
		cmd.Kind = Set
		n, v, err := number(in, pos, MaxPin)
		if err != nil {
			return cmd, err
		}
		if n, err = comma(in, n); err != nil {
			return cmd, err
		}
		n, level, err := enum(in, n, "HIGH", "LOW")
		if err != nil {
			return cmd, err
		}
		pos, cmd.Pin, cmd.Level = n, uint8(v), level
	case "PWM":
		cmd.Kind = Pwm
		n, v, err := number(in, pos, MaxDuty)
		if err != nil {
			return cmd, err
		}
		pos, cmd.Duty = n, uint8(v)
	case "ADC":
		cmd.Kind = Adc
		n, v, err := number(in, pos, MaxAdcPin)
		if err != nil {
			return cmd, err
		}
		pos, cmd.Pin = n, uint8(v)
	case "MOVE":
		cmd.Kind = Move
		n, err := moveTargets(in, pos, &cmd)
		if err != nil {
			return cmd, err
		}
		pos = n
	case "STOP":
		cmd.Kind = Stop
		n, v, err := number(in, pos, MaxChannel)
		if err != nil {
			return cmd, err
		}
		pos, cmd.Channel = n, uint8(v)
	default:
		return cmd, errAt(CodeVerb, 0)
	}
	if pos != len(in) {
		return cmd, errAt(CodeTrail, pos)
	}
	return cmd, nil
}

// splitVerb cuts the leading keyword and leaves pos after the following
// space, or at the end of input for argument-less frames. The verb is
// committed here: everything past it parses under that verb's grammar.
func splitVerb(in []byte) (verb []byte, pos int) {
	end := len(in)
	for i, b := range in {
		if b == ' ' {
			end = i
			break
		}
	}
	if end == len(in) {
		return in, end
	}
	return in[:end], end + 1
}

// number consumes a run of ASCII digits bounded by max. A missing digit
// is a malformed argument; exceeding max is a range failure reported at
// the start of the token, never clamped.
func number(in []byte, pos int, max uint16) (int, uint16, *Error) {
	start := pos
	var v uint16
	for pos < len(in) && in[pos] >= '0' && in[pos] <= '9' {
		v = v*10 + uint16(in[pos]-'0')
		if v > max {
			return pos, 0, errAt(CodeRange, start)
		}
		pos++
	}
	if pos == start {
		return pos, 0, errAt(CodeArg, start)
	}
	return pos, v, nil
}

// enum consumes one of two literals, yielding true for the first.
func enum(in []byte, pos int, yes, no string) (int, bool, *Error) {
	if n, ok := literal(in, pos, yes); ok {
		return n, true, nil
	}
	if n, ok := literal(in, pos, no); ok {
		return n, false, nil
	}
	return pos, false, errAt(CodeArg, pos)
}

// comma consumes a single comma separator.
func comma(in []byte, pos int) (int, *Error) {
	if pos < len(in) && in[pos] == ',' {
		return pos + 1, nil
	}
	return pos, errAt(CodeArg, pos)
}

func literal(in []byte, pos int, word string) (int, bool) {
	if len(in)-pos < len(word) {
		return pos, false
	}
	for i := 0; i < len(word); i++ {
		if in[pos+i] != word[i] {
			return pos, false
		}
	}
	return pos + len(word), true
}

// moveTargets consumes one or more channel,angle pairs. Pairs apply in
// the order written, so their order in the Command is the input order.
func moveTargets(in []byte, pos int, cmd *Command) (int, *Error) {
	for {
		if cmd.NumTargets == MaxMoveTargets {
			return pos, errAt(CodeRange, pos)
		}
		n, ch, err := number(in, pos, MaxChannel)
		if err != nil {
			return n, err
		}
		if n, err = comma(in, n); err != nil {
			return n, err
		}
		n, angle, err := number(in, n, MaxAngle)
		if err != nil {
			return n, err
		}
		cmd.Targets[cmd.NumTargets] = MoveTarget{Channel: uint8(ch), Angle: uint8(angle)}
		cmd.NumTargets++
		pos = n
		if pos == len(in) || in[pos] != ',' {
			return pos, nil
		}
		pos++
	}
}
