package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/hud/internal/model"
)

func testNotifications() []model.Notification {
	now := time.Now()
	return []model.Notification{
		{
			ID:        "01HZX0000000000000000000A1",
			Message:   "Build finished",
			Color:     model.Green,
			Remaining: 3 * time.Second,
			CreatedAt: now.Add(-2 * time.Second),
		},
		{
			ID:        "01HZX0000000000000000000B2",
			Message:   "Deploy\nwaiting for approval",
			Color:     model.Red,
			Permanent: true,
			CreatedAt: now.Add(-5 * time.Minute),
		},
	}
}

func TestNewFormatter(t *testing.T) {
	for _, format := range ValidFormats() {
		f, err := NewFormatter(format, DefaultFormatterOptions())
		require.NoError(t, err, format)
		assert.NotNil(t, f, format)
	}

	f, err := NewFormatter("", DefaultFormatterOptions())
	require.NoError(t, err)
	assert.IsType(t, &PlainFormatter{}, f)

	_, err = NewFormatter("xml", DefaultFormatterOptions())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json")
}

func TestPlainFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f, err := NewPlainFormatter(DefaultFormatterOptions())
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testNotifications()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.True(t, strings.HasPrefix(lines[0], "[1] Build finished"))
	assert.Contains(t, lines[0], "#00ff00")
	assert.Contains(t, lines[0], "from now")

	// Multi-line messages are joined on one line.
	assert.True(t, strings.HasPrefix(lines[1], "[2] Deploy waiting for approval"))
	assert.Contains(t, lines[1], "permanent")
	assert.Contains(t, lines[1], "ago")
}

func TestPlainFormatter_Options(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowIndex = false
	opts.ShowColor = false
	opts.MessageMax = 8
	f, err := NewPlainFormatter(opts)
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testNotifications()[:1]))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasPrefix(line, "Build..."))
	assert.NotContains(t, line, "#00ff00")
}

func TestPlainFormatter_Template(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index}}:{{.Color}}:{{truncate (oneline .Message) 20}}"
	f, err := NewPlainFormatter(opts)
	require.NoError(t, err)
	require.NoError(t, f.Format(&buf, testNotifications()))

	assert.Equal(t, "1:#00ff00:Build finished\n2:#ff0000:Deploy waiting fo...\n", buf.String())
}

func TestPlainFormatter_InvalidTemplate(t *testing.T) {
	opts := DefaultFormatterOptions()
	opts.Template = "{{.Index"
	_, err := NewPlainFormatter(opts)
	require.Error(t, err)
}

func TestDmenuFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	f := NewDmenuFormatter(DefaultFormatterOptions())
	require.NoError(t, f.Format(&buf, testNotifications()))

	assert.Equal(t,
		"1 | #00ff00 | Build finished\n2 | #ff0000 | Deploy waiting for approval\n",
		buf.String())
}

func TestDmenuFormatter_NoIndex(t *testing.T) {
	var buf bytes.Buffer

	opts := DefaultFormatterOptions()
	opts.ShowIndex = false
	opts.ShowColor = false
	f := NewDmenuFormatter(opts)
	require.NoError(t, f.Format(&buf, testNotifications()[:1]))

	assert.Equal(t, "Build finished\n", buf.String())
}

func TestJSONFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewJSONFormatter().Format(&buf, testNotifications()))

	var records []Record
	require.NoError(t, json.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)

	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, "Build finished", records[0].Message)
	assert.Equal(t, "#00ff00", records[0].Color)
	assert.InDelta(t, 3.0, records[0].Remaining, 0.001)
	assert.False(t, records[0].Permanent)

	assert.True(t, records[1].Permanent)
	assert.Zero(t, records[1].Remaining)
	assert.Contains(t, buf.String(), `"remaining_seconds"`)
}

func TestJSONFormatter_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONFormatter().Format(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestYAMLFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewYAMLFormatter().Format(&buf, testNotifications()))

	var records []Record
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &records))
	require.Len(t, records, 2)
	assert.Equal(t, "Deploy\nwaiting for approval", records[1].Message)
	assert.Equal(t, "#ff0000", records[1].Color)
}

func TestIDsFormatter_Format(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewIDsFormatter().Format(&buf, testNotifications()))
	assert.Equal(t, "01HZX0000000000000000000A1\n01HZX0000000000000000000B2\n", buf.String())
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in     string
		max    int
		expect string
	}{
		{"hello", 0, "hello"},
		{"hello", 10, "hello"},
		{"hello world", 8, "hello..."},
		{"hello", 2, "he"},
		{"héllo wörld", 7, "héll..."},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expect, truncate(tt.in, tt.max), tt.in)
	}
}

func TestNewWaybarStatus(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		s := NewWaybarStatus(nil)
		assert.Equal(t, "", s.Text)
		assert.Equal(t, ClassEmpty, s.Class)
	})

	t.Run("timed only", func(t *testing.T) {
		s := NewWaybarStatus(testNotifications()[:1])
		assert.Equal(t, "1", s.Text)
		assert.Equal(t, ClassActive, s.Class)
		assert.Equal(t, "Build finished", s.Tooltip)
		assert.Equal(t, 1, s.Percentage)
	})

	t.Run("with permanent", func(t *testing.T) {
		s := NewWaybarStatus(testNotifications())
		assert.Equal(t, "2", s.Text)
		assert.Equal(t, ClassPermanent, s.Class)
		assert.Equal(t, ClassPermanent, s.Alt)
		assert.Equal(t, "Build finished\nDeploy waiting for approval", s.Tooltip)
	})
}

func TestWaybarStatus_Write(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OfflineWaybarStatus().Write(&buf))

	assert.True(t, strings.HasSuffix(buf.String(), "}\n"))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"))

	var decoded WaybarStatus
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, ClassOffline, decoded.Class)
}
