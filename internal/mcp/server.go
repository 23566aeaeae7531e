package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/dshills/orderdesk-mcp/internal/catalog"
	"github.com/dshills/orderdesk-mcp/internal/orders"
	"github.com/dshills/orderdesk-mcp/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "orderdesk-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the database
	DefaultDBPath = "~/.orderdesk"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp     *server.MCPServer
	storage storage.Storage
	catalog *catalog.Service
	orders  *orders.Manager
	logger  *zap.Logger
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".orderdesk")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "orderdesk.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create catalog service
	cat := catalog.New(store)

	// Create order manager (the catalog service doubles as its resolver)
	mgr := orders.New(store, cat, logger)

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:     mcpServer,
		storage: store,
		catalog: cat,
		orders:  mgr,
		logger:  logger,
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Catalog tools
	s.mcp.AddTool(createProductTool(), s.handleCreateProduct)
	s.mcp.AddTool(getProductTool(), s.handleGetProduct)
	s.mcp.AddTool(listProductsTool(), s.handleListProducts)
	s.mcp.AddTool(updateProductTool(), s.handleUpdateProduct)
	s.mcp.AddTool(deleteProductTool(), s.handleDeleteProduct)

	// Order tools
	s.mcp.AddTool(createOrderTool(), s.handleCreateOrder)
	s.mcp.AddTool(getOrderTool(), s.handleGetOrder)
	s.mcp.AddTool(updateOrderTool(), s.handleUpdateOrder)
	s.mcp.AddTool(addOrderItemTool(), s.handleAddOrderItem)
	s.mcp.AddTool(editOrderItemTool(), s.handleEditOrderItem)
	s.mcp.AddTool(removeOrderItemTool(), s.handleRemoveOrderItem)
	s.mcp.AddTool(deleteOrderTool(), s.handleDeleteOrder)

	return nil
}
