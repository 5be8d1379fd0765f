package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lwindle/MeetMoment/internal/domain"
	"github.com/lwindle/MeetMoment/internal/usecase/feed"
)

type FeedHandler struct {
	feedUseCase *feed.UseCase
}

func NewFeedHandler(feedUseCase *feed.UseCase) *FeedHandler {
	return &FeedHandler{
		feedUseCase: feedUseCase,
	}
}

type feedQuery struct {
	Page   int    `form:"page,default=1"`
	Search string `form:"search"`
	City   string `form:"city"`
	MinAge *int   `form:"min_age" binding:"omitempty,min=18"`
	MaxAge *int   `form:"max_age" binding:"omitempty,max=99"`
}

// GetFeed handles GET /feed
func (h *FeedHandler) GetFeed(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingError(err)})
		return
	}

	filter := domain.FilterState{
		Search: q.Search,
		City:   q.City,
		MinAge: q.MinAge,
		MaxAge: q.MaxAge,
	}

	page, err := h.feedUseCase.FetchPage(c.Request.Context(), userID(c), filter, q.Page)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load feed"})
		return
	}

	c.JSON(http.StatusOK, page)
}

type resetRequest struct {
	Search string `json:"search"`
	City   string `json:"city"`
	MinAge *int   `json:"min_age"`
	MaxAge *int   `json:"max_age"`
}

// ResetFeed handles POST /feed/reset
func (h *FeedHandler) ResetFeed(c *gin.Context) {
	// An absent body resets to the unfiltered state.
	var req resetRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: bindingError(err)})
			return
		}
	}

	filter := domain.FilterState{
		Search: req.Search,
		City:   req.City,
		MinAge: req.MinAge,
		MaxAge: req.MaxAge,
	}
	if err := filter.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	h.feedUseCase.Reset(userID(c), filter)
	c.JSON(http.StatusOK, SuccessResponse{Message: "feed reset"})
}
