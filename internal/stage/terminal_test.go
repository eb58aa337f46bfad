package stage_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/allisson/sixseal/internal/stage"
)

func TestTerminalProgressDrawsBar(t *testing.T) {
	var buf bytes.Buffer
	p := stage.NewTerminalProgress(&buf)

	p.Start(4)
	p.Advance(2)
	p.Advance(2)
	p.Finish()

	out := buf.String()
	require.Contains(t, out, "2/4")
	require.Contains(t, out, "4/4")
	require.True(t, strings.HasSuffix(out, "\n"), "Finish must terminate the bar line")
}

func TestTerminalProgressClampsOvershoot(t *testing.T) {
	var buf bytes.Buffer
	p := stage.NewTerminalProgress(&buf)

	p.Start(2)
	p.Advance(5)

	require.Contains(t, buf.String(), "2/2")
}
