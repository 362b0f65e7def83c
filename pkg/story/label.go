package story

// Labels longer than displayMax runes are cut to displayKeep runes plus an
// ellipsis when drawn.
const (
	displayMax  = 12
	displayKeep = 10
)

// Label is the text component of scenes, variables and answers. The full
// text is persisted; only the display form is truncated.
type Label struct {
	Text string
}

// Display returns the text as drawn on the canvas.
func (l Label) Display() string {
	r := []rune(l.Text)
	if len(r) <= displayMax {
		return l.Text
	}
	return string(r[:displayKeep]) + "..."
}
