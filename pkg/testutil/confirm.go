package testutil

// FakeConfirmer answers confirmation prompts from a script
type FakeConfirmer struct {
	Answers []bool
	Prompts []string
}

// Confirm pops the next scripted answer. An exhausted script answers no.
func (f *FakeConfirmer) Confirm(message string) bool {
	f.Prompts = append(f.Prompts, message)
	if len(f.Answers) == 0 {
		return false
	}
	answer := f.Answers[0]
	f.Answers = f.Answers[1:]
	return answer
}
