// Package v2 provides a custom Hue V2 API (CLIP) client.
//
// It covers pairing, resource listing, partial resource updates and the
// SSE event stream. Pairing still goes through the v1 "/api" endpoint,
// which is the only way to obtain an application key.
//
// The V2 API uses HTTPS with self-signed certificates (requires TLS skip verify).
package v2
