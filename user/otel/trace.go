package otel

import (
	"go.opentelemetry.io/otel"
)

var Tracer = otel.Tracer("marketplace/user")
