package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ideatter/ideatter/internal/models"
	"github.com/ideatter/ideatter/internal/store"
	"github.com/ideatter/ideatter/internal/ws"
)

// --- Structs for request binding ---

type CreateIdeaInput struct {
	Username     string  `json:"username" binding:"required,max=50"`
	ExplanationA string  `json:"explanationA" binding:"required,max=120"`
	ExplanationB *string `json:"explanationB" binding:"omitempty,max=120"`
	ExplanationC *string `json:"explanationC" binding:"omitempty,max=120"`
	Description  *string `json:"description" binding:"omitempty,max=2000"`
	Likes        int     `json:"likes" binding:"omitempty,min=0"`
}

type CreateCommentInput struct {
	IdeaID   uint   `json:"ideaId" binding:"required"`
	Username string `json:"username" binding:"required,max=50"`
	Content  string `json:"content" binding:"required,max=120"`
}

type CreateWantToCreateInput struct {
	Username string `json:"username" binding:"required,max=50"`
	IdeaID   uint   `json:"ideaId" binding:"required"`
}

// WsMessage is the envelope the live feed pushes to browsers.
type WsMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Env carries the handlers' dependencies.
type Env struct {
	Store *store.Store
	Hub   *ws.Hub
}

// ideaIDParam parses the :ideaId path segment.
func ideaIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("ideaId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid idea ID", "details": err.Error()})
		return 0, false
	}
	return uint(id), true
}

func (e *Env) GetIdeas(c *gin.Context) {
	ideas, err := e.Store.ListIdeas(c.Request.Context())
	if err != nil {
		log.Printf("Error fetching ideas: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve ideas", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ideas)
}

func (e *Env) GetComments(c *gin.Context) {
	ideaID, ok := ideaIDParam(c)
	if !ok {
		return
	}
	comments, err := e.Store.ListComments(c.Request.Context(), ideaID)
	if err != nil {
		log.Printf("Error fetching comments for idea %d: %v", ideaID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve comments", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (e *Env) GetCommentCount(c *gin.Context) {
	ideaID, ok := ideaIDParam(c)
	if !ok {
		return
	}
	count, err := e.Store.CountComments(c.Request.Context(), ideaID)
	if err != nil {
		log.Printf("Error counting comments for idea %d: %v", ideaID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve comment count", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideaId": ideaID, "commentCount": count})
}

func (e *Env) GetWantToCreate(c *gin.Context) {
	ideaID, ok := ideaIDParam(c)
	if !ok {
		return
	}
	rows, err := e.Store.ListWantToCreate(c.Request.Context(), ideaID)
	if err != nil {
		log.Printf("Error fetching want-to-create rows for idea %d: %v", ideaID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve want to create", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (e *Env) GetWantToCreateCount(c *gin.Context) {
	ideaID, ok := ideaIDParam(c)
	if !ok {
		return
	}
	count, err := e.Store.CountWantToCreate(c.Request.Context(), ideaID)
	if err != nil {
		log.Printf("Error counting want-to-create rows for idea %d: %v", ideaID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not retrieve want to create count", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ideaId": ideaID, "wantToCreateCount": count})
}

func (e *Env) CreateIdea(c *gin.Context) {
	var input CreateIdeaInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username or content", "details": err.Error()})
		return
	}

	idea := models.Idea{
		Username:     input.Username,
		ExplanationA: input.ExplanationA,
		ExplanationB: input.ExplanationB,
		ExplanationC: input.ExplanationC,
		Description:  input.Description,
		Likes:        input.Likes,
	}
	if err := e.Store.InsertIdea(c.Request.Context(), &idea); err != nil {
		log.Printf("Error creating idea: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create idea", "details": err.Error()})
		return
	}

	e.broadcastMessage(WsMessage{Type: "new_idea", Data: idea})
	c.JSON(http.StatusCreated, idea)
}

func (e *Env) CreateComment(c *gin.Context) {
	var input CreateCommentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing ideaId, username, or content", "details": err.Error()})
		return
	}

	comment := models.Comment{
		IdeaID:   input.IdeaID,
		Username: input.Username,
		Content:  input.Content,
	}
	if err := e.Store.InsertComment(c.Request.Context(), &comment); err != nil {
		log.Printf("Error creating comment: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create comment", "details": err.Error()})
		return
	}

	e.broadcastMessage(WsMessage{Type: "new_comment", Data: comment})
	c.JSON(http.StatusCreated, comment)
}

func (e *Env) CreateWantToCreate(c *gin.Context) {
	var input CreateWantToCreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing username or ideaId", "details": err.Error()})
		return
	}

	row := models.WantToCreate{
		Username: input.Username,
		IdeaID:   input.IdeaID,
	}
	if err := e.Store.InsertWantToCreate(c.Request.Context(), &row); err != nil {
		log.Printf("Error creating want-to-create row: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not create want to create", "details": err.Error()})
		return
	}

	e.broadcastMessage(WsMessage{Type: "new_want_to_create", Data: row})
	c.JSON(http.StatusCreated, row)
}

func (e *Env) LikeIdea(c *gin.Context) {
	ideaID, ok := ideaIDParam(c)
	if !ok {
		return
	}

	idea, err := e.Store.IncrementLikes(c.Request.Context(), ideaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Idea not found", "details": fmt.Sprintf("no idea with ideaId %d", ideaID)})
			return
		}
		log.Printf("Error incrementing likes for idea %d: %v", ideaID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not increment likes", "details": err.Error()})
		return
	}

	payload := gin.H{"ideaId": idea.IdeaID, "likes": idea.Likes}
	e.broadcastMessage(WsMessage{Type: "like", Data: payload})

	c.JSON(http.StatusOK, gin.H{
		"ideaId":  idea.IdeaID,
		"likes":   idea.Likes,
		"message": "Like count incremented successfully",
	})
}

func (e *Env) broadcastMessage(msg WsMessage) {
	if e.Hub == nil {
		return
	}
	jsonMsg, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshalling WS message: %v", err)
		return
	}
	e.Hub.Broadcast <- jsonMsg
}
