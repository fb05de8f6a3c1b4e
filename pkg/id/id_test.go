package id

import (
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIsSortable(t *testing.T) {
	t.Parallel()

	ids := make([]string, 200)
	for i := range ids {
		ids[i] = New()
	}
	assert.True(t, sort.StringsAreSorted(ids))
}

func TestCorrelationPrefix(t *testing.T) {
	t.Parallel()

	c := Correlation()
	assert.True(t, strings.HasPrefix(c, "xfer-"))
	assert.NotEqual(t, c, Correlation())
}

func TestTime(t *testing.T) {
	t.Parallel()

	before := time.Now().UTC().Add(-time.Second)
	ts, err := Time(New())
	require.NoError(t, err)
	assert.True(t, ts.After(before))

	_, err = Time("not-a-ulid")
	assert.Error(t, err)
}
