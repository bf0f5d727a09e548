package taskmanager

import "testing"

func TestContainsText(t *testing.T) {
	tests := []struct {
		desc, tag, text, want string
	}{
		{
			desc: "button label",
			tag:  "button",
			text: "Add Task",
			want: `//button[contains(text(), 'Add Task')]`,
		},
		{
			desc: "any element",
			text: "Test Task",
			want: `//*[contains(text(), 'Test Task')]`,
		},
		{
			desc: "single quote",
			tag:  "div",
			text: "Bob's task",
			want: `//div[contains(text(), "Bob's task")]`,
		},
		{
			desc: "both quotes",
			tag:  "div",
			text: `Bob's "task"`,
			want: `//div[contains(text(), concat('Bob', "'", 's "task"'))]`,
		},
		{
			desc: "leading quote",
			tag:  "div",
			text: `'"`,
			want: `//div[contains(text(), concat("'", '"'))]`,
		},
	}
	for _, tc := range tests {
		if got := ContainsText(tc.tag, tc.text); got != tc.want {
			t.Errorf("%s: ContainsText(%q, %q) = %s, want %s", tc.desc, tc.tag, tc.text, got, tc.want)
		}
	}
}
