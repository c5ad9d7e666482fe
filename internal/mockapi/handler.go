package mockapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"bookshelf/internal/logger"
	"bookshelf/pkg/models"
)

type Handler struct {
	Repo *Repo
	Log  *logger.Logger
}

func NewHandler(repo *Repo, log *logger.Logger) *Handler {
	return &Handler{Repo: repo, Log: logger.OrDiscard(log).With("component", "mockapi")}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/Usuarios", h.listUsers)
	rg.POST("/Usuarios", h.createUser)
	rg.GET("/Usuarios/:id", h.getUser)

	rg.GET("/Livros", h.listBooks)
	rg.POST("/Livros", h.createBook)
	rg.PUT("/Livros/:id", h.updateBook)
	rg.DELETE("/Livros/:id", h.deleteBook)

	rg.GET("/MetaLeitura/usuario/:id", h.getGoal)
	rg.POST("/MetaLeitura", h.createGoal)
	rg.PUT("/MetaLeitura/:id", h.updateGoal)

	rg.GET("/DesafioAZ/usuario/:id", h.getChallenge)
	rg.POST("/DesafioAZ", h.createChallenge)
	rg.PUT("/DesafioAZ/:id/letra", h.saveLetter)
	rg.DELETE("/DesafioAZ/:id/letra/:letra", h.clearLetter)

	rg.GET("/Calendario/usuario/:id/ano/:ano", h.getCalendar)
	rg.PUT("/Calendario/usuario/:id/ano/:ano/mes/:mes", h.saveMonth)

	rg.GET("/ProximaLeitura", h.listNextReads)
	rg.POST("/ProximaLeitura", h.createNextRead)
	rg.DELETE("/ProximaLeitura/:id", h.deleteNextRead)
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"message": msg})
}

func (h *Handler) internal(c *gin.Context, op string, err error) {
	h.Log.Error(op+" failed", "path", c.FullPath(), "error", err)
	fail(c, http.StatusInternalServerError, "internal error")
}

// bindMessage turns binding failures into one readable line.
func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		parts := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
		}
		return "invalid request: " + strings.Join(parts, ", ")
	}
	return "invalid json"
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, err == nil && id > 0
}

func yearQuery(c *gin.Context) (int, bool) {
	raw := strings.TrimSpace(c.Query("ano"))
	if raw == "" {
		return time.Now().Year(), true
	}
	y, err := strconv.Atoi(raw)
	return y, err == nil && y > 0
}

// requireUser resolves the user id in raw and
// answers 404 when it does not exist.
func (h *Handler) requireUser(c *gin.Context, raw string) (int64, bool) {
	id, ok := parseID(raw)
	if !ok {
		fail(c, http.StatusNotFound, "Usuario nao encontrado")
		return 0, false
	}
	u, err := h.Repo.GetUser(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "get user", err)
		return 0, false
	}
	if u == nil {
		fail(c, http.StatusNotFound, "Usuario nao encontrado")
		return 0, false
	}
	return id, true
}

// Users

type userReq struct {
	Nome string `json:"nome" binding:"required"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.Repo.ListUsers(c.Request.Context())
	if err != nil {
		h.internal(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *Handler) createUser(c *gin.Context) {
	var req userReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	name := strings.TrimSpace(req.Nome)
	if name == "" {
		fail(c, http.StatusBadRequest, "Nome obrigatorio")
		return
	}
	u, err := h.Repo.CreateUser(c.Request.Context(), name)
	if err != nil {
		h.internal(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *Handler) getUser(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Usuario nao encontrado")
		return
	}
	u, err := h.Repo.GetUser(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "get user", err)
		return
	}
	if u == nil {
		fail(c, http.StatusNotFound, "Usuario nao encontrado")
		return
	}
	c.JSON(http.StatusOK, u)
}

// Books

type bookReq struct {
	Titulo           string    `json:"titulo" binding:"required"`
	Autor            string    `json:"autor" binding:"required"`
	Genero           *string   `json:"genero"`
	ImagemURL        *string   `json:"imagemUrl"`
	TempoLeituraDias int       `json:"tempoLeituraDias" binding:"gte=1"`
	Estrelas         int       `json:"estrelas" binding:"gte=1,lte=5"`
	Coracoes         int       `json:"coracoes" binding:"gte=0,lte=5"`
	Fogos            int       `json:"fogos" binding:"gte=0,lte=5"`
	Humor            int       `json:"humor" binding:"gte=0,lte=5"`
	Favorito         bool      `json:"favorito"`
	UsuarioID        models.ID `json:"usuarioId" binding:"required"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func (h *Handler) listBooks(c *gin.Context) {
	userID, ok := parseID(c.Query("usuarioId"))
	if !ok {
		fail(c, http.StatusBadRequest, "usuarioId obrigatorio")
		return
	}
	books, err := h.Repo.ListBooks(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, "list books", err)
		return
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) createBook(c *gin.Context) {
	var req bookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	title, author := strings.TrimSpace(req.Titulo), strings.TrimSpace(req.Autor)
	if title == "" || author == "" {
		fail(c, http.StatusBadRequest, "Titulo e autor sao obrigatorios")
		return
	}
	userID, ok := h.requireUser(c, req.UsuarioID.String())
	if !ok {
		return
	}

	book, err := h.Repo.CreateBook(c.Request.Context(), userID, models.Book{
		Title:       title,
		Author:      author,
		Genre:       deref(req.Genero),
		CoverURL:    deref(req.ImagemURL),
		ReadingDays: req.TempoLeituraDias,
		Stars:       req.Estrelas,
		Hearts:      req.Coracoes,
		Intensity:   req.Fogos,
		Emotion:     req.Humor,
		Favorite:    req.Favorito,
	})
	if err != nil {
		h.internal(c, "create book", err)
		return
	}
	c.JSON(http.StatusCreated, book)
}

// updateBook applies a partial update; absent fields keep their value.
func (h *Handler) updateBook(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Livro nao encontrado")
		return
	}
	var patch models.BookPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}

	ctx := c.Request.Context()
	book, err := h.Repo.GetBook(ctx, id)
	if err != nil {
		h.internal(c, "get book", err)
		return
	}
	if book == nil {
		fail(c, http.StatusNotFound, "Livro nao encontrado")
		return
	}

	b := *book
	if patch.Title != nil {
		b.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Author != nil {
		b.Author = strings.TrimSpace(*patch.Author)
	}
	if patch.Genre.Set {
		b.Genre = strings.TrimSpace(patch.Genre.String())
	}
	if patch.ReadingDays != nil {
		b.ReadingDays = *patch.ReadingDays
	}
	if patch.Stars != nil {
		b.Stars = *patch.Stars
	}
	if patch.Hearts != nil {
		b.Hearts = *patch.Hearts
	}
	if patch.Favorite != nil {
		b.Favorite = *patch.Favorite
	}

	switch {
	case b.Title == "" || b.Author == "":
		fail(c, http.StatusBadRequest, "Titulo e autor sao obrigatorios")
		return
	case b.ReadingDays < 1:
		fail(c, http.StatusBadRequest, "tempoLeituraDias deve ser maior que zero")
		return
	case b.Stars < 1 || b.Stars > 5:
		fail(c, http.StatusBadRequest, "estrelas deve estar entre 1 e 5")
		return
	case b.Hearts < 0 || b.Hearts > 5:
		fail(c, http.StatusBadRequest, "coracoes deve estar entre 0 e 5")
		return
	}

	if err := h.Repo.SaveBook(ctx, id, b); err != nil {
		h.internal(c, "update book", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) deleteBook(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Livro nao encontrado")
		return
	}
	deleted, err := h.Repo.DeleteBook(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "delete book", err)
		return
	}
	if !deleted {
		fail(c, http.StatusNotFound, "Livro nao encontrado")
		return
	}
	c.Status(http.StatusNoContent)
}

// Goals

// targetReq accepts the corrected spelling too; the legacy one wins.
type targetReq struct {
	Legacy *int `json:"quantidadeObejetivo"`
	Fixed  *int `json:"quantidadeObjetivo"`
}

func (t targetReq) target() int {
	switch {
	case t.Legacy != nil:
		return *t.Legacy
	case t.Fixed != nil:
		return *t.Fixed
	default:
		return 0
	}
}

type goalReq struct {
	targetReq
	Ano       int       `json:"ano" binding:"gte=1"`
	UsuarioID models.ID `json:"usuarioId" binding:"required"`
}

func (h *Handler) getGoal(c *gin.Context) {
	userID, ok := parseID(c.Param("id"))
	year, yok := yearQuery(c)
	if !ok || !yok {
		fail(c, http.StatusNotFound, "Meta nao encontrada")
		return
	}
	g, err := h.Repo.GetGoal(c.Request.Context(), userID, year)
	if err != nil {
		h.internal(c, "get goal", err)
		return
	}
	if g == nil {
		fail(c, http.StatusNotFound, "Meta nao encontrada")
		return
	}
	c.JSON(http.StatusOK, g)
}

func (h *Handler) createGoal(c *gin.Context) {
	var req goalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	target := req.target()
	if target < 1 {
		fail(c, http.StatusBadRequest, "quantidadeObejetivo deve ser maior que zero")
		return
	}
	userID, ok := h.requireUser(c, req.UsuarioID.String())
	if !ok {
		return
	}

	g, err := h.Repo.CreateGoal(c.Request.Context(), userID, req.Ano, target)
	if errors.Is(err, ErrConflict) {
		fail(c, http.StatusConflict, "Meta ja cadastrada para este ano")
		return
	}
	if err != nil {
		h.internal(c, "create goal", err)
		return
	}
	c.JSON(http.StatusCreated, g)
}

func (h *Handler) updateGoal(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Meta nao encontrada")
		return
	}
	var req targetReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	target := req.target()
	if target < 1 {
		fail(c, http.StatusBadRequest, "quantidadeObejetivo deve ser maior que zero")
		return
	}
	updated, err := h.Repo.UpdateGoal(c.Request.Context(), id, target)
	if err != nil {
		h.internal(c, "update goal", err)
		return
	}
	if !updated {
		fail(c, http.StatusNotFound, "Meta nao encontrada")
		return
	}
	c.Status(http.StatusNoContent)
}

// Challenges

type challengeReq struct {
	Ano       int       `json:"ano" binding:"gte=1"`
	UsuarioID models.ID `json:"usuarioId" binding:"required"`
}

type letterReq struct {
	Letra       string `json:"letra" binding:"required"`
	TituloLivro string `json:"tituloLivro"`
	Completado  bool   `json:"completado"`
}

func normalizeLetter(raw string) (string, bool) {
	l := strings.ToUpper(strings.TrimSpace(raw))
	return l, len(l) == 1 && strings.Contains(models.Alphabet, l)
}

func (h *Handler) getChallenge(c *gin.Context) {
	userID, ok := parseID(c.Param("id"))
	year, yok := yearQuery(c)
	if !ok || !yok {
		fail(c, http.StatusNotFound, "Desafio nao encontrado")
		return
	}
	ch, err := h.Repo.GetChallenge(c.Request.Context(), userID, year)
	if err != nil {
		h.internal(c, "get challenge", err)
		return
	}
	if ch == nil {
		fail(c, http.StatusNotFound, "Desafio nao encontrado")
		return
	}
	c.JSON(http.StatusOK, ch)
}

func (h *Handler) createChallenge(c *gin.Context) {
	var req challengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	userID, ok := h.requireUser(c, req.UsuarioID.String())
	if !ok {
		return
	}
	ch, err := h.Repo.CreateChallenge(c.Request.Context(), userID, req.Ano)
	if errors.Is(err, ErrConflict) {
		fail(c, http.StatusConflict, "Desafio ja cadastrado para este ano")
		return
	}
	if err != nil {
		h.internal(c, "create challenge", err)
		return
	}
	c.JSON(http.StatusCreated, ch)
}

func (h *Handler) saveLetter(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Desafio nao encontrado")
		return
	}
	var req letterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	letter, ok := normalizeLetter(req.Letra)
	if !ok {
		fail(c, http.StatusBadRequest, "letra invalida")
		return
	}
	h.writeLetter(c, id, models.ChallengeLetter{
		Letter:    letter,
		BookTitle: strings.TrimSpace(req.TituloLivro),
		Completed: req.Completado,
	})
}

func (h *Handler) clearLetter(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Desafio nao encontrado")
		return
	}
	letter, ok := normalizeLetter(c.Param("letra"))
	if !ok {
		fail(c, http.StatusBadRequest, "letra invalida")
		return
	}
	h.writeLetter(c, id, models.ChallengeLetter{Letter: letter})
}

func (h *Handler) writeLetter(c *gin.Context, id int64, l models.ChallengeLetter) {
	saved, err := h.Repo.SaveLetter(c.Request.Context(), id, l)
	if err != nil {
		h.internal(c, "save letter", err)
		return
	}
	if !saved {
		fail(c, http.StatusNotFound, "Desafio nao encontrado")
		return
	}
	c.Status(http.StatusNoContent)
}

// Calendar

type monthReq struct {
	QuantidadeLivros int `json:"quantidadeLivros" binding:"gte=0"`
}

func (h *Handler) getCalendar(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("ano"))
	if err != nil || year < 1 {
		fail(c, http.StatusBadRequest, "ano invalido")
		return
	}
	userID, ok := h.requireUser(c, c.Param("id"))
	if !ok {
		return
	}
	cal, err := h.Repo.GetCalendar(c.Request.Context(), userID, year)
	if err != nil {
		h.internal(c, "get calendar", err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

func (h *Handler) saveMonth(c *gin.Context) {
	year, yerr := strconv.Atoi(c.Param("ano"))
	month, merr := strconv.Atoi(c.Param("mes"))
	if yerr != nil || merr != nil || year < 1 || month < 1 || month > 12 {
		fail(c, http.StatusBadRequest, "ano ou mes invalido")
		return
	}
	var req monthReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	userID, ok := h.requireUser(c, c.Param("id"))
	if !ok {
		return
	}
	if err := h.Repo.SaveMonth(c.Request.Context(), userID, year, month, req.QuantidadeLivros); err != nil {
		h.internal(c, "save month", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Next reads

type nextReadReq struct {
	Titulo      string          `json:"titulo" binding:"required"`
	ImageURL    *string         `json:"imageUrl"`
	Complemento *string         `json:"complemento"`
	Prioridade  models.Priority `json:"prioridade" binding:"omitempty,gte=1,lte=3"`
	UsuarioID   models.ID       `json:"usuarioId" binding:"required"`
}

func (h *Handler) listNextReads(c *gin.Context) {
	userID, ok := parseID(c.Query("usuarioId"))
	if !ok {
		fail(c, http.StatusBadRequest, "usuarioId obrigatorio")
		return
	}
	items, err := h.Repo.ListNextReads(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, "list next reads", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) createNextRead(c *gin.Context) {
	var req nextReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, bindMessage(err))
		return
	}
	title := strings.TrimSpace(req.Titulo)
	if title == "" {
		fail(c, http.StatusBadRequest, "Titulo obrigatorio")
		return
	}
	userID, ok := h.requireUser(c, req.UsuarioID.String())
	if !ok {
		return
	}
	priority := req.Prioridade
	if priority == 0 {
		priority = models.PriorityHigh
	}
	n, err := h.Repo.CreateNextRead(c.Request.Context(), userID, models.NextRead{
		Title:    title,
		ImageURL: deref(req.ImageURL),
		Note:     deref(req.Complemento),
		Priority: priority,
	})
	if err != nil {
		h.internal(c, "create next read", err)
		return
	}
	c.JSON(http.StatusCreated, n)
}

func (h *Handler) deleteNextRead(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		fail(c, http.StatusNotFound, "Leitura nao encontrada")
		return
	}
	deleted, err := h.Repo.DeleteNextRead(c.Request.Context(), id)
	if err != nil {
		h.internal(c, "delete next read", err)
		return
	}
	if !deleted {
		fail(c, http.StatusNotFound, "Leitura nao encontrada")
		return
	}
	c.Status(http.StatusNoContent)
}
