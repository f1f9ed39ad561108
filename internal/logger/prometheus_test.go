package logger

import (
	"testing"

	"github.com/maxaizer/job-alert-bot/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func Test_PrometheusHook_ShouldCountByErrorType(t *testing.T) {
	hook := &prometheusHook{}
	before := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeSource))
	unknownBefore := testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues("unknown"))

	assert.NoError(t, hook.Fire(log.WithField(ErrorTypeField, ErrorTypeSource)))
	assert.NoError(t, hook.Fire(log.NewEntry(log.StandardLogger())))

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues(ErrorTypeSource)))
	assert.Equal(t, unknownBefore+1, testutil.ToFloat64(metrics.ErrorsCounter.WithLabelValues("unknown")))
}

func Test_LokiHook_Levels_ShouldIncludeUpToMinLevel(t *testing.T) {
	hook := &lokiHook{minLevel: log.WarnLevel}

	assert.Equal(t, []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}, hook.Levels())
}
