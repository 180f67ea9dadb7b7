package console

// Notices holds at most one error and one success message per screen. Both
// are cleared at the start of each submission attempt and replaced by that
// attempt's outcome.
type Notices struct {
	Error   string `json:"error"`
	Success string `json:"success"`
}

func (n *Notices) Reset() {
	n.Error = ""
	n.Success = ""
}

func (n *Notices) Fail(msg string) {
	n.Error = msg
}

func (n *Notices) Ok(msg string) {
	n.Success = msg
}
