package logfile_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/logfile/pkg/logfile"
	"github.com/randalmurphal/logfile/pkg/logfile/config"
)

func TestApplyOptions(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
max_queue_length: 20
max_forwarding_batch: 5
forwarding_delay: 1s
developer_mode: true
events_from_errors: true
allow: [Debug..Critical]
block: [Warning]
`))
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)

	b := logfile.NewBuilder[level]()
	require.NoError(t, logfile.ApplyOptions(b, opts, logfile.ParseStandardLoglevel))

	built, err := b.Build()
	require.NoError(t, err)

	assert.Equal(t, 20, built.MaxQueueLength())
	assert.Equal(t, 5, built.MaxForwardingBatch())
	assert.Equal(t, time.Second, built.ForwardingDelay())
	assert.True(t, built.DeveloperMode())

	pps := built.Preprocessors()
	require.Len(t, pps, 2)
	filter := pps[1]
	assert.Empty(t, filter.Process(logfile.NewEvent(logfile.Trace)))
	assert.Empty(t, filter.Process(logfile.NewEvent(logfile.Warning)))
	assert.Nil(t, filter.Process(logfile.NewEvent(logfile.Error)))
}

func TestApplyOptionsErrors(t *testing.T) {
	opts := config.DefaultOptions()
	opts.Block = []config.LevelSpec{{From: "Loud", To: "Loud"}}

	err := logfile.ApplyOptions(logfile.NewBuilder[level](), opts, logfile.ParseStandardLoglevel)
	assert.ErrorIs(t, err, logfile.ErrUnknownLoglevel)

	err = logfile.ApplyOptions(nil, opts, logfile.ParseStandardLoglevel)
	assert.ErrorIs(t, err, logfile.ErrNilArgument)

	err = logfile.ApplyOptions[level](logfile.NewBuilder[level](), opts, nil)
	assert.ErrorIs(t, err, logfile.ErrNilArgument)
}

func TestApplyOptionsInvalidLimitsFailAtBuild(t *testing.T) {
	opts := config.DefaultOptions()
	opts.MaxQueueLength = 0

	b := logfile.NewBuilder[level]()
	require.NoError(t, logfile.ApplyOptions(b, opts, logfile.ParseStandardLoglevel))

	_, err := b.Build()
	assert.Error(t, err)
}
