package controllers

import (
	"net/http/httptest"
	"testing"

	beecontext "github.com/beego/beego/v2/server/web/context"
	"github.com/stretchr/testify/assert"
)

func newRequestController(headers map[string]string) *BaseController {
	r := httptest.NewRequest("GET", "/api/chat", nil)
	r.RemoteAddr = "203.0.113.7:52100"
	for k, v := range headers {
		r.Header.Set(k, v)
	}

	ctx := beecontext.NewContext()
	ctx.Reset(httptest.NewRecorder(), r)

	c := &BaseController{}
	c.Ctx = ctx
	return c
}

func TestGetClientIPPrefersForwardedFor(t *testing.T) {
	c := newRequestController(map[string]string{
		"X-Forwarded-For": "198.51.100.4, 10.0.0.2",
		"X-Real-Ip":       "192.0.2.9",
	})
	// 代理链取第一跳
	assert.Equal(t, "198.51.100.4", c.getClientIP())
}

func TestGetClientIPFallsBackToRealIP(t *testing.T) {
	c := newRequestController(map[string]string{"X-Real-Ip": "192.0.2.9"})
	assert.Equal(t, "192.0.2.9", c.getClientIP())
}

func TestGetClientIPUsesRemoteAddr(t *testing.T) {
	c := newRequestController(nil)
	assert.Equal(t, "203.0.113.7", c.getClientIP())
}
