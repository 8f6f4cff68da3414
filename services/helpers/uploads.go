package helpers

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
)

// FormFiles returns the files sent under field. Non-multipart requests have none.
func FormFiles(c *gin.Context, field string) ([]*multipart.FileHeader, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, err
	}
	return form.File[field], nil
}
