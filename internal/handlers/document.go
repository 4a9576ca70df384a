package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"lon-backend/internal/database"
	"lon-backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const documentsDir = "task_documents"

// documentPath is the stored file path relative to the media root. It uses
// forward slashes on every platform.
func documentPath(taskID uint, uploaded string) string {
	ext := strings.ToLower(filepath.Ext(uploaded))
	return path.Join(documentsDir, strconv.FormatUint(uint64(taskID), 10), uuid.NewString()+ext)
}

func mediaFile(rel string) string {
	return filepath.Join(mediaRoot, filepath.FromSlash(rel))
}

func ListTaskDocuments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		fail(c, "task", err)
		return
	}

	var docs []models.TaskDocument
	if err := database.DB.Where("task_id = ?", task.ID).Order("uploaded_at desc").Find(&docs).Error; err != nil {
		fail(c, "document", err)
		return
	}
	c.JSON(http.StatusOK, mapViews(docs, newDocumentView))
}

// UploadTaskDocument stores the multipart "file" under the media root and
// records it against the task. The title defaults to the uploaded name.
func UploadTaskDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var task models.Task
	if err := database.DB.First(&task, id).Error; err != nil {
		fail(c, "task", err)
		return
	}

	header, err := c.FormFile("file")
	if err != nil {
		fail(c, "", badInput("file is required"))
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = filepath.Base(header.Filename)
	}

	rel := documentPath(task.ID, header.Filename)
	dst := mediaFile(rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		fail(c, "document", fmt.Errorf("create document dir: %w", err))
		return
	}
	if err := c.SaveUploadedFile(header, dst); err != nil {
		fail(c, "document", fmt.Errorf("save document: %w", err))
		return
	}

	doc := models.TaskDocument{
		TaskID:       task.ID,
		Title:        title,
		File:         rel,
		UploadedByID: currentUser(c).ID,
	}
	if err := database.DB.Create(&doc).Error; err != nil {
		_ = os.Remove(dst)
		fail(c, "document", err)
		return
	}

	logger.Info("document uploaded",
		"task_id", task.ID,
		"document_id", doc.ID,
		"size", header.Size)

	c.JSON(http.StatusCreated, newDocumentView(doc))
}

func DownloadDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var doc models.TaskDocument
	if err := database.DB.First(&doc, id).Error; err != nil {
		fail(c, "document", err)
		return
	}

	c.FileAttachment(mediaFile(doc.File), doc.Filename())
}

// DeleteDocument removes the record and its file. A file already missing
// from disk is not an error.
func DeleteDocument(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var doc models.TaskDocument
	if err := database.DB.First(&doc, id).Error; err != nil {
		fail(c, "document", err)
		return
	}
	if err := database.DB.Delete(&doc).Error; err != nil {
		fail(c, "document", err)
		return
	}

	removeDocumentFiles([]string{doc.File})
	c.Status(http.StatusNoContent)
}

// purgeDocuments deletes the document rows of the given tasks inside tx and
// returns their files for removeDocumentFiles once tx has committed.
func purgeDocuments(tx *gorm.DB, taskIDs []uint) ([]string, error) {
	if len(taskIDs) == 0 {
		return nil, nil
	}
	var docs []models.TaskDocument
	if err := tx.Where("task_id IN ?", taskIDs).Find(&docs).Error; err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	if err := tx.Where("task_id IN ?", taskIDs).Delete(&models.TaskDocument{}).Error; err != nil {
		return nil, fmt.Errorf("delete documents: %w", err)
	}
	files := make([]string, 0, len(docs))
	for _, d := range docs {
		files = append(files, d.File)
	}
	return files, nil
}

func removeDocumentFiles(files []string) {
	for _, f := range files {
		if err := os.Remove(mediaFile(f)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("failed to remove document file",
				"file", f,
				"error", err)
		}
	}
}
