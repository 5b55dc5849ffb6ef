package cache

import (
	"github.com/sirupsen/logrus"
)

// logger returns a logger with the default fields every cache log line carries.
func logger(code string, key Key) *logrus.Entry {
	return logrus.WithFields(logrus.Fields{
		"category": cacheLogCategory,
		"code":     code,
		"key":      key.String(),
	})
}

func logFetchError(key Key, hasStaleValue bool, err error) {
	entry := logger("fetch_error", key).WithField("servingStale", hasStaleValue)
	if hasStaleValue {
		// Last-known-good data keeps being displayed alongside the error.
		entry.WithError(err).Warn("Refetch failed, keeping previous value")
		return
	}
	entry.WithError(err).Error("Fetch failed with no cached value to fall back on")
}
