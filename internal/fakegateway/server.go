package fakegateway

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/five82/atelier/internal/masterpieces"
)

const requestIDHeader = "X-Request-ID"

type handler struct {
	store *Store
}

// NewRouter wires every gateway route onto a gin engine. Reads answer with
// bare payloads and mutations with {success, data, message} envelopes.
func NewRouter(store *Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestID(), accessLog())

	h := &handler{store: store}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	mp := r.Group("/api/masterpieces")
	mp.GET("/collections", h.listCollections)
	mp.GET("/collections/search", h.searchCollections)
	mp.GET("/collections/category", h.collectionsByCategory)
	mp.GET("/collections/overview", h.overview)
	mp.GET("/collections/:id", h.getCollection)
	mp.GET("/collections/:id/artworks/:pageId/image", h.artworkImage)
	mp.GET("/config", h.getConfig)
	mp.PUT("/config", h.updateConfig)

	cart := r.Group("/api/cart/:userId")
	cart.Use(requireUser())
	cart.GET("", h.getCart)
	cart.POST("/add", h.addToCart)
	cart.PUT("/update", h.updateCartItem)
	cart.DELETE("/remove", h.removeFromCart)
	cart.DELETE("/clear", h.clearCart)
	cart.POST("/booking", h.batchBooking)

	return r
}

// requestID echoes the caller's X-Request-ID or assigns one.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("requestID", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		log.Printf("gateway: %s %s %d (request %s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), c.GetString("requestID"))
	}
}

// requireUser validates the :userId segment.
func requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("userId"), 10, 64)
		if err != nil || id <= 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid user id"})
			return
		}
		c.Set("userID", id)
		c.Next()
	}
}

func userID(c *gin.Context) int64 {
	return c.GetInt64("userID")
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// fail reports a business failure: the request was understood but refused.
func fail(c *gin.Context, err error) {
	c.JSON(http.StatusOK, gin.H{"success": false, "message": err.Error()})
}

func (h *handler) listCollections(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Collections())
}

func (h *handler) searchCollections(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	c.JSON(http.StatusOK, h.store.Search(q))
}

func (h *handler) collectionsByCategory(c *gin.Context) {
	category, found := masterpieces.ParseCategory(c.Query("category"))
	if !found {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	c.JSON(http.StatusOK, h.store.ByCategory(category))
}

func (h *handler) overview(c *gin.Context) {
	ok(c, h.store.Overview())
}

func (h *handler) getCollection(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	collection, found := h.store.Collection(id)
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "collection not found"})
		return
	}
	c.JSON(http.StatusOK, collection)
}

// artworkImage serves a placeholder for file-backed pages.
func (h *handler) artworkImage(c *gin.Context) {
	id, err1 := strconv.ParseInt(c.Param("id"), 10, 64)
	pageID, err2 := strconv.ParseInt(c.Param("pageId"), 10, 64)
	if err1 != nil || err2 != nil {
		c.Status(http.StatusBadRequest)
		return
	}
	collection, found := h.store.Collection(id)
	if !found {
		c.Status(http.StatusNotFound)
		return
	}
	for _, page := range collection.Pages {
		if page.ID == pageID && !page.FileID.IsZero() {
			svg := `<svg xmlns="http://www.w3.org/2000/svg" width="300" height="400"><rect width="100%" height="100%" fill="#ddd"/><text x="20" y="200">` +
				string(page.FileID) + `</text></svg>`
			c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
			return
		}
	}
	c.Status(http.StatusNotFound)
}

func (h *handler) getConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Site())
}

func (h *handler) updateConfig(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	site, err := h.store.UpdateSite(patch)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, site)
}

func (h *handler) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Cart(userID(c)))
}

func (h *handler) addToCart(c *gin.Context) {
	var req masterpieces.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.store.Add(userID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, cart)
}

func (h *handler) updateCartItem(c *gin.Context) {
	var req masterpieces.UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.store.Update(userID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, cart)
}

func (h *handler) removeFromCart(c *gin.Context) {
	var req masterpieces.RemoveFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cart, err := h.store.Remove(userID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, cart)
}

func (h *handler) clearCart(c *gin.Context) {
	ok(c, h.store.Clear(userID(c)))
}

func (h *handler) batchBooking(c *gin.Context) {
	var req masterpieces.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := h.store.Book(userID(c), req)
	if err != nil {
		fail(c, err)
		return
	}
	ok(c, result)
}
