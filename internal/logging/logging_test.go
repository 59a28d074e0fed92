package logging

import (
	"bytes"
	"testing"

	"github.com/juju/loggo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSpec(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: DefaultSpec},
		{in: "debug", want: "<root>=DEBUG"},
		{in: " INFO ", want: "<root>=INFO"},
		{in: "<root>=INFO;uc.subprocess=TRACE", want: "<root>=INFO;uc.subprocess=TRACE"},
	}
	for _, tt := range tests {
		got, err := NormalizeSpec(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	_, err := NormalizeSpec("loud")
	assert.Error(t, err)
	_, err = NormalizeSpec("<root>=LOUD")
	assert.Error(t, err)
}

func TestConfigureWritesToWriter(t *testing.T) {
	t.Cleanup(loggo.ResetLogging)

	var buf bytes.Buffer
	require.NoError(t, Configure(&buf, "<root>=WARNING;uc.test=DEBUG"))

	logger := loggo.GetLogger("uc.test")
	logger.Debugf("wizard %s scheduled", "settingsDefaults")
	loggo.GetLogger("uc.other").Infof("hidden")

	out := buf.String()
	assert.Contains(t, out, "DEBUG uc.test wizard settingsDefaults scheduled")
	assert.NotContains(t, out, "hidden")
}

func TestConfigureTwiceReplacesWriter(t *testing.T) {
	t.Cleanup(loggo.ResetLogging)

	var first, second bytes.Buffer
	require.NoError(t, Configure(&first, "INFO"))
	require.NoError(t, Configure(&second, "INFO"))

	loggo.GetLogger("uc.test").Infof("after reconfigure")
	assert.Empty(t, first.String())
	assert.Contains(t, second.String(), "INFO uc.test after reconfigure")
}
