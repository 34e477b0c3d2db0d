package tags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"React", "react"},
		{"  React JS  ", "reactjs"},
		{"react-js", "reactjs"},
		{"react_js", "reactjs"},
		{"react/js", "reactjs"},
		{"React.JS", "react.js"},
		{"리액트", "리액트"},
		// Full-width forms fold to ASCII under NFKC.
		{"Ｒｅａｃｔ", "react"},
		{"ＣＩ／ＣＤ", "cicd"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeKey_DistinctSpellingsConverge(t *testing.T) {
	spellings := []string{"Spring Boot", "spring-boot", "SPRING_BOOT", "springboot"}
	want := NormalizeKey(spellings[0])
	for _, s := range spellings[1:] {
		assert.Equal(t, want, NormalizeKey(s))
	}
}
