package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func stubTerminal(t *testing.T, terminal bool, pw string, err error) {
	t.Helper()
	oldIs, oldRead := isTerminal, readPassword
	isTerminal = func(int) bool { return terminal }
	readPassword = func(int) ([]byte, error) { return []byte(pw), err }
	t.Cleanup(func() { isTerminal, readPassword = oldIs, oldRead })
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("hello world\n"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(rdr(""), "Name?", &out)
	require.Error(t, err)
}

func TestGetTextWithDefault(t *testing.T) {
	var out bytes.Buffer
	got, err := GetTextWithDefault(rdr("\n"), "Enter email", "a@x.com", &out)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", got)
	assert.Contains(t, out.String(), "Enter email [a@x.com]")

	got, err = GetTextWithDefault(rdr("b@x.com\n"), "Enter email", "a@x.com", &out)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", got)

	out.Reset()
	got, err = GetTextWithDefault(rdr("\n"), "Enter email", "", &out)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotContains(t, out.String(), "[")
}

func TestGetPassword_Terminal(t *testing.T) {
	stubTerminal(t, true, "secret1", nil)

	var out bytes.Buffer
	got, err := GetPassword(rdr("ignored\n"), "Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, "secret1", got)
	assert.Equal(t, "Enter password: \n", out.String())
}

func TestGetPassword_Error(t *testing.T) {
	stubTerminal(t, true, "", errors.New("boom"))

	var out bytes.Buffer
	_, err := GetPassword(rdr(""), "Enter password", &out)
	require.Error(t, err)
}

func TestGetPassword_NotTerminalReadsLine(t *testing.T) {
	stubTerminal(t, false, "", errors.New("must not be called"))

	var out bytes.Buffer
	got, err := GetPassword(rdr("piped-secret\n"), "Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, "piped-secret", got)
}

func TestGetYesNo(t *testing.T) {
	cases := map[string]bool{
		"y\n":    true,
		"YES\n":  true,
		"n\n":    false,
		"\n":     false,
		"sure\n": false,
		"":       false,
	}
	for in, want := range cases {
		var out bytes.Buffer
		assert.Equal(t, want, GetYesNo(rdr(in), "Delete?", &out), "input %q", in)
		assert.Contains(t, out.String(), "Delete? [y/N]")
	}
}
