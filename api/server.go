// Package api exposes the desk over HTTP: balances, positions, orders,
// the trade ledger, quotes and notifications, plus the websocket hub.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rustyeddy/quantdesk/account"
	"github.com/rustyeddy/quantdesk/broker"
	"github.com/rustyeddy/quantdesk/journal"
	"github.com/rustyeddy/quantdesk/market"
	"github.com/rustyeddy/quantdesk/notify"
	"github.com/rustyeddy/quantdesk/portfolio"
	"github.com/rustyeddy/quantdesk/sim"
	"github.com/rustyeddy/quantdesk/strategy"
	"github.com/shopspring/decimal"
)

// Desk is the part of the execution engine the API drives.
type Desk interface {
	Execute(ctx context.Context, in broker.Intent) (journal.TradeRecord, error)
	Deposit(ctx context.Context, sel account.Selector, amount decimal.Decimal) error
	SetActive(sel account.Selector) error
	Account() account.Balances
	Positions() []portfolio.Position
	Trades() []journal.TradeRecord
	Valuation(prices portfolio.PriceSource) portfolio.Valuation
}

// BotRunner is the strategy runner the API starts and stops.
type BotRunner interface {
	Start() bool
	Stop() bool
	State() strategy.State
	Metrics() strategy.Metrics
	Logs() []strategy.Log
}

type Server struct {
	desk   Desk
	feed   *market.Feed
	center *notify.Center
	hub    http.Handler

	// OnChange runs after every successful mutation; the CLI uses it to
	// write balances back to the settings file.
	OnChange func() error

	// Bot enables the /bot routes when set.
	Bot BotRunner
}

func NewServer(desk Desk, feed *market.Feed, center *notify.Center, hub http.Handler) *Server {
	return &Server{desk: desk, feed: feed, center: center, hub: hub}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/account", s.getAccount)
	r.POST("/account/deposit", s.postDeposit)
	r.PUT("/account/mode", s.putMode)

	r.GET("/positions", s.getPositions)
	r.GET("/portfolio", s.getPortfolio)
	r.POST("/orders", s.postOrder)
	r.GET("/trades", s.getTrades)

	if s.feed != nil {
		r.GET("/quotes", s.getQuotes)
	}
	if s.center != nil {
		r.GET("/notifications", s.getNotifications)
		r.POST("/notifications/read", s.postMarkRead)
		r.DELETE("/notifications", s.deleteNotifications)
	}
	if s.Bot != nil {
		r.GET("/bot", s.getBot)
		r.POST("/bot/start", s.postBotStart)
		r.POST("/bot/stop", s.postBotStop)
	}
	if s.hub != nil {
		r.GET("/ws", gin.WrapH(s.hub))
	}
	return r
}

func (s *Server) changed(c *gin.Context) bool {
	if s.OnChange == nil {
		return true
	}
	if err := s.OnChange(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// status maps engine rejections to HTTP codes.
func status(err error) int {
	switch {
	case errors.Is(err, sim.ErrInsufficientFunds),
		errors.Is(err, sim.ErrInsufficientHoldings),
		errors.Is(err, sim.ErrNoPosition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	return http.StatusBadRequest
}

func (s *Server) getAccount(c *gin.Context) {
	c.JSON(http.StatusOK, s.desk.Account())
}

type depositRequest struct {
	Account account.Selector `json:"account"`
	Amount  decimal.Decimal  `json:"amount"`
}

func (s *Server) postDeposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid deposit payload"})
		return
	}
	if err := s.desk.Deposit(c.Request.Context(), req.Account, req.Amount); err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	if s.changed(c) {
		c.JSON(http.StatusOK, s.desk.Account())
	}
}

type modeRequest struct {
	Account string `json:"account"`
}

func (s *Server) putMode(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode payload"})
		return
	}
	sel, err := account.ParseSelector(req.Account)
	if err == nil {
		err = s.desk.SetActive(sel)
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if s.changed(c) {
		c.JSON(http.StatusOK, s.desk.Account())
	}
}

func (s *Server) getPositions(c *gin.Context) {
	c.JSON(http.StatusOK, s.desk.Positions())
}

func (s *Server) getPortfolio(c *gin.Context) {
	var prices portfolio.PriceSource
	if s.feed != nil {
		prices = s.feed
	}
	c.JSON(http.StatusOK, gin.H{
		"positions": s.desk.Positions(),
		"valuation": s.desk.Valuation(prices),
	})
}

type orderRequest struct {
	Symbol   string           `json:"symbol"`
	Action   string           `json:"action"`
	Quantity decimal.Decimal  `json:"quantity"`
	Price    *decimal.Decimal `json:"price,omitempty"`
	Account  account.Selector `json:"account,omitempty"`
}

// postOrder fills at the requested price, or at the feed's last price
// when none is given.
func (s *Server) postOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order payload"})
		return
	}
	action, err := broker.ParseAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := broker.Intent{
		Symbol:   portfolio.NormalizeSymbol(req.Symbol),
		Action:   action,
		Quantity: req.Quantity,
		Account:  req.Account,
	}
	switch {
	case req.Price != nil:
		in.Price = *req.Price
	case s.feed != nil:
		px, ok := s.feed.Price(in.Symbol)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No quote for " + in.Symbol + "; specify a price"})
			return
		}
		in.Price = px
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price is required"})
		return
	}

	rec, err := s.desk.Execute(c.Request.Context(), in)
	if err != nil {
		c.JSON(status(err), gin.H{"error": err.Error()})
		return
	}
	if s.changed(c) {
		c.JSON(http.StatusCreated, rec)
	}
}

func (s *Server) getTrades(c *gin.Context) {
	trades := s.desk.Trades()
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		if n < len(trades) {
			trades = trades[:n]
		}
	}
	c.JSON(http.StatusOK, trades)
}

func (s *Server) getQuotes(c *gin.Context) {
	c.JSON(http.StatusOK, s.feed.Stocks())
}

func (s *Server) getNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"unread": s.center.Unread(),
		"items":  s.center.All(),
	})
}

func (s *Server) postMarkRead(c *gin.Context) {
	s.center.MarkAllRead()
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteNotifications(c *gin.Context) {
	s.center.Clear()
	c.Status(http.StatusNoContent)
}

type botStatus struct {
	State      string          `json:"state"`
	Running    bool            `json:"running"`
	SessionPnL decimal.Decimal `json:"session_pnl"`
	TradeCount int             `json:"trade_count"`
	WinCount   int             `json:"win_count"`
	WinRate    float64         `json:"win_rate"`
	Logs       []strategy.Log  `json:"logs"`
}

func (s *Server) botStatus() botStatus {
	state := s.Bot.State()
	m := s.Bot.Metrics()
	return botStatus{
		State:      state.String(),
		Running:    state == strategy.Running,
		SessionPnL: m.SessionPnL,
		TradeCount: m.TradeCount,
		WinCount:   m.WinCount,
		WinRate:    m.WinRate(),
		Logs:       s.Bot.Logs(),
	}
}

func (s *Server) getBot(c *gin.Context) {
	c.JSON(http.StatusOK, s.botStatus())
}

// postBotStart and postBotStop are idempotent; session metrics carry over.
func (s *Server) postBotStart(c *gin.Context) {
	s.Bot.Start()
	c.JSON(http.StatusOK, s.botStatus())
}

func (s *Server) postBotStop(c *gin.Context) {
	s.Bot.Stop()
	c.JSON(http.StatusOK, s.botStatus())
}
