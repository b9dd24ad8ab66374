package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"portfolio-backend/internal/media"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/services"
)

const maxUploadMemory = 100 << 20

// MobileAppService is the record lifecycle consumed by the HTTP layer.
type MobileAppService interface {
	Create(in services.CreateInput) (*models.MobileApp, error)
	Update(id int64, in services.UpdateInput) (*models.MobileApp, error)
	Delete(id int64) error
	Get(id int64) (*models.MobileApp, error)
	List() ([]models.MobileApp, error)
}

type MobileAppsHandler struct {
	apps MobileAppService
	log  *zap.Logger
}

func NewMobileAppsHandler(apps MobileAppService, log *zap.Logger) *MobileAppsHandler {
	return &MobileAppsHandler{apps: apps, log: log}
}

// Create godoc
// @Summary     Create a mobile app record
// @Description Creates a mobile app showcase with optional media attachments. Files go under the "media" form field, in display order; "media_descriptions" is an optional JSON object mapping file position to a label.
// @Tags        mobile-apps
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       project_name formData string true "Project name"
// @Param       industry formData string true "Industry"
// @Param       stacks formData string true "Technology tags, JSON array or comma-separated"
// @Param       media formData file false "Media attachments (images/videos)"
// @Success     201 {object} models.MobileAppDataResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /mobile/add-mobileApp [post]
func (h *MobileAppsHandler) Create(c *gin.Context) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to parse multipart form", Message: err.Error()})
		return
	}

	files, err := readFiles(c, "media")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid media attachment", Message: err.Error()})
		return
	}

	descriptions, err := parseIndexDescriptions(c.PostForm("media_descriptions"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid media_descriptions", Message: err.Error()})
		return
	}

	in := services.CreateInput{
		ProjectName:  c.PostForm("project_name"),
		Industry:     c.PostForm("industry"),
		Stacks:       services.ParseStacks(c.PostForm("stacks")),
		Designer:     c.PostForm("designer"),
		DesignerLink: c.PostForm("designerLink"),
		Company:      c.PostForm("company"),
		Status:       c.PostForm("status"),
		ProjectLink:  c.PostForm("project_link"),
		GithubLink:   c.PostForm("github_link"),
		Files:        files,
		Descriptions: descriptions,
	}
	if user := middleware.CurrentUser(c); user != nil {
		in.CreatedBy = user.Email
	}

	created, err := h.apps.Create(in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.MobileAppDataResponse{
		Success: true,
		Message: fmt.Sprintf("mobile app created successfully with %d media files", len(created.Media)),
		Data:    models.NewMobileAppResponse(created),
	})
}

// Update godoc
// @Summary     Update a mobile app record
// @Description Applies media operations in the fixed order remove ("remove_media_ids", JSON array of ids), redescribe ("update_media_descriptions", JSON object id to label), then append (files under "new_media"). Scalar fields are only overwritten when present in the form.
// @Tags        mobile-apps
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id path int true "Mobile app ID"
// @Success     200 {object} models.MobileAppDataResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /mobile/update-mobileApp/{id} [put]
func (h *MobileAppsHandler) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid mobile app id"})
		return
	}

	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "failed to parse multipart form", Message: err.Error()})
		return
	}

	files, err := readFiles(c, "new_media")
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid media attachment", Message: err.Error()})
		return
	}

	removeIDs, err := parseIDList(c.PostForm("remove_media_ids"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid remove_media_ids", Message: err.Error()})
		return
	}

	redescribe, err := parseIDDescriptions(c.PostForm("update_media_descriptions"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid update_media_descriptions", Message: err.Error()})
		return
	}

	descriptions, err := parseIndexDescriptions(c.PostForm("media_descriptions"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid media_descriptions", Message: err.Error()})
		return
	}

	in := services.UpdateInput{
		ProjectName:     formValue(c, "project_name"),
		Industry:        formValue(c, "industry"),
		Designer:        formValue(c, "designer"),
		DesignerLink:    formValue(c, "designerLink"),
		Company:         formValue(c, "company"),
		Status:          formValue(c, "status"),
		ProjectLink:     formValue(c, "project_link"),
		GithubLink:      formValue(c, "github_link"),
		RemoveMediaIDs:  removeIDs,
		RedescribeMedia: redescribe,
		Files:           files,
		Descriptions:    descriptions,
	}
	if raw, ok := c.GetPostForm("stacks"); ok {
		in.Stacks = services.ParseStacks(raw)
	}

	updated, err := h.apps.Update(id, in)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MobileAppDataResponse{
		Success: true,
		Message: "mobile app updated successfully",
		Data:    models.NewMobileAppResponse(updated),
	})
}

// Delete godoc
// @Summary     Delete a mobile app record and its media
// @Tags        mobile-apps
// @Produce     json
// @Security    Bearer
// @Param       id path int true "Mobile app ID"
// @Success     200 {object} models.MessageResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /mobile/delete-mobileApp/{id} [delete]
func (h *MobileAppsHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid mobile app id"})
		return
	}

	if err := h.apps.Delete(id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Success: true,
		Message: "mobile app and all associated media deleted successfully",
	})
}

// Get godoc
// @Summary     Get one mobile app record
// @Tags        mobile-apps
// @Produce     json
// @Param       id path int true "Mobile app ID"
// @Success     200 {object} models.MobileAppDataResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /mobile/get-mobileApp/{id} [get]
func (h *MobileAppsHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "invalid mobile app id"})
		return
	}

	app, err := h.apps.Get(id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MobileAppDataResponse{
		Success: true,
		Data:    models.NewMobileAppResponse(app),
	})
}

// List godoc
// @Summary     List all mobile app records
// @Tags        mobile-apps
// @Produce     json
// @Success     200 {object} models.MobileAppListResponse
// @Router      /mobile/get-all-mobileApps [get]
func (h *MobileAppsHandler) List(c *gin.Context) {
	apps, err := h.apps.List()
	if err != nil {
		h.respondError(c, err)
		return
	}

	responses := make([]models.MobileAppResponse, len(apps))
	for i := range apps {
		responses[i] = models.NewMobileAppResponse(&apps[i])
	}

	c.JSON(http.StatusOK, models.MobileAppListResponse{
		Success:    true,
		Data:       responses,
		TotalCount: len(responses),
	})
}

func (h *MobileAppsHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "validation failed", Message: err.Error()})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "mobile app not found", Message: err.Error()})
	default:
		h.log.Error("mobile app request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "internal server error", Message: err.Error()})
	}
}

// readFiles pulls the ordered attachments from the named multipart field,
// rejecting anything that is not an image or a video.
func readFiles(c *gin.Context, field string) ([]media.NewFile, error) {
	if c.Request.MultipartForm == nil {
		return nil, nil
	}

	headers := c.Request.MultipartForm.File[field]
	files := make([]media.NewFile, 0, len(headers))
	for _, header := range headers {
		data, err := readFile(header)
		if err != nil {
			return nil, err
		}

		contentType := header.Header.Get("Content-Type")
		if contentType == "" || contentType == "application/octet-stream" {
			if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(header.Filename))); byExt != "" {
				contentType = byExt
			}
		}
		if !strings.HasPrefix(contentType, "image/") && !strings.HasPrefix(contentType, "video/") {
			return nil, fmt.Errorf("only image and video files are allowed, got %q for %q", contentType, header.Filename)
		}

		files = append(files, media.NewFile{
			Name:        header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}
	return files, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	src, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", header.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", header.Filename, err)
	}
	return data, nil
}

// formValue returns a pointer only when the field was present in the form,
// so the service can tell "omitted" from "explicitly cleared".
func formValue(c *gin.Context, key string) *string {
	if v, ok := c.GetPostForm(key); ok {
		return &v
	}
	return nil
}

func parseIndexDescriptions(raw string) (map[int]string, error) {
	if raw == "" {
		return nil, nil
	}
	var byKey map[string]string
	if err := json.Unmarshal([]byte(raw), &byKey); err != nil {
		return nil, err
	}
	out := make(map[int]string, len(byKey))
	for k, v := range byKey {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("description key %q is not a position", k)
		}
		out[idx] = v
	}
	return out, nil
}

func parseIDDescriptions(raw string) (map[int64]string, error) {
	if raw == "" {
		return nil, nil
	}
	var byKey map[string]string
	if err := json.Unmarshal([]byte(raw), &byKey); err != nil {
		return nil, err
	}
	out := make(map[int64]string, len(byKey))
	for k, v := range byKey {
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("description key %q is not a media id", k)
		}
		out[id] = v
	}
	return out, nil
}

func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []int64
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
