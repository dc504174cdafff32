package handler

// ClientIP exposes clientIP to the external test package.
var ClientIP = clientIP
