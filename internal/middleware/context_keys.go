package middleware

import "github.com/gin-gonic/gin"

// subjectKey is the key used to store the authenticated subject in the request context.
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the authenticated admin subject.
// It returns the subject and a boolean indicating if it was found.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	subject, ok := c.Request.Context().Value(subjectKey).(string)
	if !ok || subject == "" {
		return "", false
	}
	return subject, true
}
