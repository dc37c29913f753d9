package ussd

// Callback is one stateless gateway request: the full form-field payload of
// a USSD turn.
type Callback struct {
	SessionID   string
	PhoneNumber string
	ServiceCode string
	Text        string
}

// reply is a rendered turn response. Every code path inside the engine must
// resolve to one; nothing is allowed to propagate to the gateway as a fault.
type reply struct {
	text string
	end  bool
}

// con continues the dialog: more input is expected.
func con(text string) reply {
	return reply{text: text}
}

// end terminates the dialog: the gateway displays the text and closes.
func end(text string) reply {
	return reply{text: text, end: true}
}

// render produces the wire format the gateway expects.
func (r reply) render() string {
	if r.end {
		return "END " + r.text
	}
	return "CON " + r.text
}
