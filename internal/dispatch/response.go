package dispatch

// Response is the outcome of one dispatch. Failures are reported in-band
// with IsError set; the dispatcher never surfaces a transport fault.
type Response struct {
	Text    string
	IsError bool

	// Fault is populated on failure for logging and journaling.
	Fault *Fault
}

func success(text string) Response {
	return Response{Text: text}
}

func failure(f *Fault) Response {
	return Response{Text: f.Msg, IsError: true, Fault: f}
}
