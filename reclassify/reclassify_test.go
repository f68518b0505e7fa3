package reclassify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPre2012Citation(t *testing.T) {
	tests := []struct {
		name        string
		title       string
		section     string
		wantTitle   string
		wantSection string
	}{
		{"definitions moved", "2", "431", "52", "30101"},
		{"contribution limits moved", "2", "441a", "52", "30116"},
		{"dash suffix moved", "2", "441a-1", "52", "30117"},
		{"enforcement moved", "2", "437g", "52", "30109"},
		{"unknown section passes through", "2", "999", "2", "999"},
		{"other title passes through", "52", "30101", "52", "30101"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			title, section := Pre2012Citation(tt.title, tt.section)
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantSection, section)
		})
	}
}
