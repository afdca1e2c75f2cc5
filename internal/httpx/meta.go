package httpx

import (
	"net"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// RequestMeta is the client information attached to auth log lines.
type RequestMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

// MetaFromRequest expects chi's RealIP middleware to have normalized RemoteAddr.
func MetaFromRequest(r *http.Request) RequestMeta {
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ua := r.UserAgent()
	if len(ua) > 256 {
		ua = ua[:256]
	}
	return RequestMeta{
		IP:        ip,
		UserAgent: ua,
		RequestID: middleware.GetReqID(r.Context()),
	}
}

func (m RequestMeta) Fields() []zap.Field {
	fields := []zap.Field{
		zap.String("ip", m.IP),
		zap.String("user_agent", m.UserAgent),
	}
	if m.RequestID != "" {
		fields = append(fields, zap.String("request_id", m.RequestID))
	}
	return fields
}
