package logging

import (
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomFormatterFormat(t *testing.T) {
	f := &CustomFormatter{SystemName: "project-management-api"}
	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC),
		Level:   logrus.InfoLevel,
		Message: "Event ID: TEST_EVENT, Description: hello",
	}

	out, err := f.Format(entry)
	require.NoError(t, err)

	line := string(out)
	assert.Contains(t, line, "Date: 2026-01-02, Time: 15:04:05")
	assert.Contains(t, line, "Event Source: project-management-api")
	assert.Contains(t, line, "Event Type: INFO")
	assert.Contains(t, line, "Message: Event ID: TEST_EVENT, Description: hello")
	assert.True(t, strings.HasSuffix(line, "\n"))
}
