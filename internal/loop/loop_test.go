package loop

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunQuitsOnKey(t *testing.T) {
	var out bytes.Buffer
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := Run(ctx, strings.NewReader(" q"), &out, Options{
		TermSizeFunc: func() (int, int, error) { return 80, 24, nil },
	})
	require.NoError(t, err)
	assert.NoError(t, ctx.Err(), "loop ended before the deadline")
	assert.Contains(t, out.String(), "\033[?25l")
	assert.True(t, strings.HasSuffix(out.String(), "\033[H\033[2J\033[?25h"), "screen is restored on exit")
}
