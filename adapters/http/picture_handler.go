package http

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	profileUC "github.com/khoahotran/profile-builder/internal/application/usecase/profile"
	"github.com/khoahotran/profile-builder/pkg/apperror"
	"github.com/khoahotran/profile-builder/pkg/logger"
)

// Older clients post the picture under "file".
var pictureFormFields = []string{"profilePicture", "file"}

type PictureHandler struct {
	profileUseCase *profileUC.ProfileUseCase
	logger         logger.Logger
}

func NewPictureHandler(uc *profileUC.ProfileUseCase, log logger.Logger) *PictureHandler {
	return &PictureHandler{
		profileUseCase: uc,
		logger:         log,
	}
}

func (h *PictureHandler) UploadPicture(c *gin.Context) {
	fileHeader := pictureFormFile(c)
	if fileHeader == nil {
		c.Error(apperror.NewInvalidInput("No file uploaded", nil))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.Error(apperror.NewInternal("failed to open file", err))
		return
	}
	defer file.Close()

	input := profileUC.UploadPictureInput{
		File:         file,
		OriginalName: fileHeader.Filename,
		Size:         fileHeader.Size,
	}
	output, err := h.profileUseCase.ExecuteUploadPicture(c.Request.Context(), input)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile picture uploaded successfully",
		"filename": output.Filename,
		"profile":  ToProfileDTO(output.Profile),
	})
}

func (h *PictureHandler) DeletePicture(c *gin.Context) {
	output, err := h.profileUseCase.ExecuteDeletePicture(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile picture deleted successfully",
		"profile": ToProfileDTO(output.Profile),
	})
}

func pictureFormFile(c *gin.Context) *multipart.FileHeader {
	for _, field := range pictureFormFields {
		if fh, err := c.FormFile(field); err == nil {
			return fh
		}
	}
	return nil
}
