package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainagg "github.com/yungbote/quranstudy-backend/internal/domain/aggregates"
	"github.com/yungbote/quranstudy-backend/internal/http/response"
	"github.com/yungbote/quranstudy-backend/internal/platform/apierr"
	"github.com/yungbote/quranstudy-backend/internal/platform/ctxutil"
	"github.com/yungbote/quranstudy-backend/internal/platform/logger"
	"github.com/yungbote/quranstudy-backend/internal/services"
)

// multipartSlack covers form fields and boundaries on top of the audio limit.
const multipartSlack = 1 << 20

type RecitationHandler struct {
	log         *logger.Logger
	recitations services.RecitationService
}

func NewRecitationHandler(log *logger.Logger, recitations services.RecitationService) *RecitationHandler {
	return &RecitationHandler{
		log:         log.With("handler", "RecitationHandler"),
		recitations: recitations,
	}
}

// GET /recitation
func (h *RecitationHandler) Index(c *gin.Context) {
	page, err := h.recitations.PracticePage(c.Request.Context())
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondPage(c, "recitation/index", page)
}

// POST /api/recitation
// multipart: surah_id, verse_number, audio_file
func (h *RecitationHandler) Store(c *gin.Context) {
	const op = "http.recitation.store"
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(services.MaxAudioKB)*1024+multipartSlack)
	if err := c.Request.ParseMultipartForm(8 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondErr(c, domainagg.FieldError(op, "audio_file", "validation.max_kb", services.MaxAudioKB))
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			response.RespondErr(c, domainagg.FieldError(op, "request", "validation.invalid_body"))
			return
		}
	}

	in := services.SubmitInput{}
	rawSurah := strings.TrimSpace(c.PostForm("surah_id"))
	if rawSurah == "" {
		response.RespondErr(c, domainagg.FieldError(op, "surah_id", "validation.required"))
		return
	}
	surahID, err := strconv.ParseUint(rawSurah, 10, 32)
	if err != nil {
		response.RespondErr(c, domainagg.FieldError(op, "surah_id", "validation.exists"))
		return
	}
	in.SurahID = uint(surahID)

	rawVerse := strings.TrimSpace(c.PostForm("verse_number"))
	if rawVerse == "" {
		response.RespondErr(c, domainagg.FieldError(op, "verse_number", "validation.required"))
		return
	}
	verse, err := strconv.Atoi(rawVerse)
	if err != nil {
		response.RespondErr(c, domainagg.FieldError(op, "verse_number", "validation.integer"))
		return
	}
	in.VerseNumber = verse

	if fh, err := c.FormFile("audio_file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			response.RespondErr(c, domainagg.FieldError(op, "audio_file", "validation.required"))
			return
		}
		defer f.Close()
		in.Audio = &services.AudioUpload{Filename: fh.Filename, Size: fh.Size, Body: f}
	}

	res, err := h.recitations.Submit(c.Request.Context(), in)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"session": res.Session,
		"message": response.Message(c, "recitation.analyzed"),
	})
}

// GET /recitation/history?page=
func (h *RecitationHandler) History(c *gin.Context) {
	userID, ok := ctxutil.UserID(c.Request.Context())
	if !ok {
		response.RespondErr(c, apierr.Unauthenticated())
		return
	}
	h.respondHistory(c, userID)
}

// GET /recitation/:userId?page=
func (h *RecitationHandler) UserHistory(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		response.RespondErr(c, apierr.NotFound("user"))
		return
	}
	h.respondHistory(c, userID)
}

func (h *RecitationHandler) respondHistory(c *gin.Context, userID uuid.UUID) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	out, err := h.recitations.History(c.Request.Context(), userID, page)
	if err != nil {
		response.RespondErr(c, err)
		return
	}
	response.RespondOK(c, out)
}
