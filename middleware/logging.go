/*
	Copyright NetFoundry Inc.

	Licensed under the Apache License, Version 2.0 (the "License");
	you may not use this file except in compliance with the License.
	You may obtain a copy of the License at

	https://www.apache.org/licenses/LICENSE-2.0

	Unless required by applicable law or agreed to in writing, software
	distributed under the License is distributed on an "AS IS" BASIS,
	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
	See the License for the specific language governing permissions and
	limitations under the License.
*/

package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/michaelquigley/pfxlog"
	"github.com/sirupsen/logrus"
)

// NewRequestLogger returns a middleware that logs one line per request through pfxlog.
func NewRequestLogger(serverName string) func(http.Handler) http.Handler {
	return chimiddleware.RequestLogger(&LogFormatter{ServerName: serverName})
}

// LogFormatter is a chi LogFormatter backed by pfxlog.
type LogFormatter struct {
	ServerName string
}

var _ chimiddleware.LogFormatter = &LogFormatter{}

func (f *LogFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	fields := logrus.Fields{
		"server": f.ServerName,
		"method": r.Method,
		"path":   r.URL.Path,
		"remote": r.RemoteAddr,
	}

	if reqId := chimiddleware.GetReqID(r.Context()); reqId != "" {
		fields["requestId"] = reqId
	}

	return &logEntry{entry: pfxlog.Logger().WithFields(fields)}
}

type logEntry struct {
	entry *logrus.Entry
}

func (l *logEntry) Write(status, bytes int, _ http.Header, elapsed time.Duration, _ interface{}) {
	entry := l.entry.WithFields(logrus.Fields{
		"status":  status,
		"bytes":   bytes,
		"elapsed": elapsed.String(),
	})

	if status >= http.StatusInternalServerError {
		entry.Warn("request completed")
		return
	}
	entry.Info("request completed")
}

func (l *logEntry) Panic(v interface{}, stack []byte) {
	l.entry.WithField("panic", v).Errorf("request panicked\n%s", stack)
}
