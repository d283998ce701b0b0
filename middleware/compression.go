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
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	EncodingBrotli  = "br"
	EncodingGzip    = "gzip"
	EncodingDeflate = "deflate"

	DefaultCompressionLevel = 5
)

// CompressibleContentTypes are the response content types that are encoded. Everything else is passed through.
var CompressibleContentTypes = []string{
	"text/html",
	"text/css",
	"text/plain",
	"text/javascript",
	"application/javascript",
	"application/json",
	"application/problem+json",
	"image/svg+xml",
}

// NewCompressionHandler wraps next so that compressible responses are brotli, gzip or deflate encoded for clients
// that accept it, in that order of preference. Responses that already carry a Content-Encoding are left alone.
func NewCompressionHandler(next http.Handler) http.Handler {
	return NewCompressor(DefaultCompressionLevel).Handler(next)
}

// NewCompressor returns a chi Compressor with brotli registered ahead of the built-in gzip and deflate encoders.
func NewCompressor(level int) *chimiddleware.Compressor {
	compressor := chimiddleware.NewCompressor(level, CompressibleContentTypes...)
	compressor.SetEncoder(EncodingBrotli, func(w io.Writer, level int) io.Writer {
		return brotli.NewWriterLevel(w, level)
	})
	return compressor
}
