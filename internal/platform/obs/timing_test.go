package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	t.Cleanup(func() { require.NoError(t, Configure("info", "text")) })

	ctx := WithRequestID(context.Background(), "42")
	err := errors.New("boom")
	Time(ctx, "reports.load")(&err)

	out := buf.String()
	assert.Contains(t, out, "req_id=42")
	assert.Contains(t, out, "op=reports.load")
	assert.Contains(t, out, "boom")
}

func TestConfigureRejectsUnknownValues(t *testing.T) {
	t.Cleanup(func() { require.NoError(t, Configure("info", "text")) })

	assert.Error(t, Configure("loud", "text"))
	assert.Error(t, Configure("info", "xml"))
	assert.NoError(t, Configure("debug", "json"))
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
