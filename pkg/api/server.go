// Package api provides the REST API server for musiz
package api

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/rain1024/musiz/pkg/notation"
	"github.com/rain1024/musiz/pkg/score"
)

// @title Musiz API
// @version 1.0
// @description API for converting and transposing music notation files
// @host localhost:8080
// @BasePath /api/v1

// NewRouter builds the gin engine with all routes registered.
func NewRouter() *gin.Engine {
	r := gin.Default()

	r.Use(corsMiddleware())

	r.GET("/health", healthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/formats", listFormats)
		v1.POST("/convert", handleConvert)
		v1.POST("/transpose", handleTranspose)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// StartServer starts the API server on the specified port
func StartServer(port int) error {
	return NewRouter().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "musiz",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns the supported notation formats and conversion paths
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"abc", "musicxml", "midi"},
		"conversions": notation.SupportedConversions(),
	})
}

// handleConvert godoc
// @Summary Convert a notation file
// @Description Upload an ABC or MusicXML file and receive it in the target format
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Notation file to convert (.abc, .xml, .musicxml)"
// @Param to query string true "Target format (abc, musicxml, midi)"
// @Param key query string false "Key signature for ABC output (default: C)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/convert [post]
func handleConvert(c *gin.Context) {
	s, name, ok := readUploadedScore(c)
	if !ok {
		return
	}

	target := notation.Format(c.DefaultQuery("to", "musicxml"))
	key := c.DefaultQuery("key", "C")

	writeRendered(c, s, target, key, name)
}

// handleTranspose godoc
// @Summary Transpose a notation file
// @Description Upload a notation file and receive it transposed by the given semitones
// @Tags transpose
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Notation file to transpose (.abc, .xml, .musicxml)"
// @Param semitones query int true "Semitones to shift (positive = up)"
// @Param to query string false "Target format (defaults to the input format)"
// @Param key query string false "Key signature for ABC output (default: C)"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Router /api/v1/transpose [post]
func handleTranspose(c *gin.Context) {
	s, name, ok := readUploadedScore(c)
	if !ok {
		return
	}

	semitones, err := strconv.Atoi(c.Query("semitones"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid semitones value"})
		return
	}

	target := notation.Format(c.Query("to"))
	if target == "" {
		target = notation.DetectFormat(name)
	}
	key := c.DefaultQuery("key", "C")

	writeRendered(c, score.Transpose(s, semitones), target, key, name)
}

func readUploadedScore(c *gin.Context) (*score.Score, string, bool) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return nil, "", false
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return nil, "", false
	}

	format := notation.DetectFormat(header.Filename)
	s, err := notation.Parse(data, format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}

	return s, header.Filename, true
}

func writeRendered(c *gin.Context, s *score.Score, target notation.Format, key, inputName string) {
	result, err := notation.Render(s, target, key)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var outputExt, contentType string
	switch target {
	case notation.FormatABC:
		outputExt, contentType = ".abc", "text/plain"
	case notation.FormatMusicXML:
		outputExt, contentType = ".musicxml", "application/vnd.recordare.musicxml+xml"
	case notation.FormatMIDI:
		outputExt, contentType = ".mid", "audio/midi"
	default:
		outputExt, contentType = "", "application/octet-stream"
	}

	outputName := strings.TrimSuffix(inputName, filepath.Ext(inputName)) + outputExt
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName))
	c.Data(http.StatusOK, contentType, result)
}
