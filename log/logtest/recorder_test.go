/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-memocache/log"
)

func TestRecorder(t *testing.T) {
	logRecorder := NewRecorder()
	logRecorder.Warn("message1", log.Int("num", 10), log.String("str", "abc"))
	logRecorder.With(log.String("component", "cache")).Debug("message2")

	require.Len(t, logRecorder.Entries(), 2)

	_, found := logRecorder.FindEntry("foobar")
	require.False(t, found)

	logEntry, found := logRecorder.FindEntry("message1")
	require.True(t, found)
	require.Equal(t, log.LevelWarn, logEntry.Level)

	logFieldNum, found := logEntry.FindField("num")
	require.True(t, found)
	require.Equal(t, 10, int(logFieldNum.Int))

	logFieldStr, found := logEntry.FindField("str")
	require.True(t, found)
	require.Equal(t, "abc", string(logFieldStr.Bytes))

	debugEntry, found := logRecorder.FindEntry("message2")
	require.True(t, found)
	require.Equal(t, log.LevelDebug, debugEntry.Level)
	component, found := debugEntry.FindField("component")
	require.True(t, found)
	require.Equal(t, "cache", string(component.Bytes))

	require.Len(t, logRecorder.FindAllEntries(func(e RecordedEntry) bool { return e.Level == log.LevelDebug }), 1)

	logRecorder.Reset()
	require.Empty(t, logRecorder.Entries())
}
