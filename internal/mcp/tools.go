package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/shopspring/decimal"

	"github.com/dshills/orderdesk-mcp/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams   = -32602 // Invalid method parameters
	ErrorCodeInternalError   = -32603 // Internal JSON-RPC error
	ErrorCodeOrderNotFound   = -32001 // Order does not exist
	ErrorCodeProductNotFound = -32002 // Product does not exist
	ErrorCodeItemNotFound    = -32003 // Line item does not exist on that order
	ErrorCodeValidation      = -32004 // Domain validation rejected the input
)

// handleCreateProduct handles the create_product tool invocation
func (s *Server) handleCreateProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	unitPrice, err := getDecimal(args, "unit_price")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid unit_price", map[string]interface{}{
			"param":  "unit_price",
			"reason": err.Error(),
		})
	}

	product := types.Product{
		Name:          name,
		UnitPrice:     unitPrice,
		StockQuantity: getIntDefault(args, "stock_quantity", 0),
	}
	if desc, ok := args["description"].(string); ok {
		product.Description = &desc
	}

	created, err := s.catalog.CreateProduct(ctx, product)
	if err != nil {
		return nil, domainError(err, "failed to create product")
	}

	return mcp.NewToolResultText(formatJSON(productResponse(created))), nil
}

// handleGetProduct handles the get_product tool invocation
func (s *Server) handleGetProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	productID, err := getInt64(args, "product_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid product_id", map[string]interface{}{
			"param":  "product_id",
			"reason": err.Error(),
		})
	}

	product, err := s.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, domainError(err, "failed to get product")
	}

	return mcp.NewToolResultText(formatJSON(productResponse(product))), nil
}

// handleListProducts handles the list_products tool invocation
func (s *Server) handleListProducts(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		return nil, domainError(err, "failed to list products")
	}

	list := make([]interface{}, 0, len(products))
	for i := range products {
		list = append(list, productResponse(&products[i]))
	}
	response := map[string]interface{}{
		"products": list,
		"count":    len(products),
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleUpdateProduct handles the update_product tool invocation
func (s *Server) handleUpdateProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	productID, err := getInt64(args, "product_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid product_id", map[string]interface{}{
			"param":  "product_id",
			"reason": err.Error(),
		})
	}

	name, ok := args["name"].(string)
	if !ok || name == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "name parameter is required", map[string]interface{}{
			"param":  "name",
			"reason": "missing or empty",
		})
	}

	unitPrice, err := getDecimal(args, "unit_price")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid unit_price", map[string]interface{}{
			"param":  "unit_price",
			"reason": err.Error(),
		})
	}

	product := types.Product{
		ID:            productID,
		Name:          name,
		UnitPrice:     unitPrice,
		StockQuantity: getIntDefault(args, "stock_quantity", 0),
	}
	if desc, ok := args["description"].(string); ok {
		product.Description = &desc
	}

	updated, err := s.catalog.UpdateProduct(ctx, product)
	if err != nil {
		return nil, domainError(err, "failed to update product")
	}

	return mcp.NewToolResultText(formatJSON(productResponse(updated))), nil
}

// handleDeleteProduct handles the delete_product tool invocation
func (s *Server) handleDeleteProduct(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	productID, err := getInt64(args, "product_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid product_id", map[string]interface{}{
			"param":  "product_id",
			"reason": err.Error(),
		})
	}

	if err := s.catalog.DeleteProduct(ctx, productID); err != nil {
		return nil, domainError(err, "failed to delete product")
	}

	response := map[string]interface{}{
		"deleted":    true,
		"product_id": productID,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleCreateOrder handles the create_order tool invocation
func (s *Server) handleCreateOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	customerName, ok := args["customer_name"].(string)
	if !ok || customerName == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "customer_name parameter is required", map[string]interface{}{
			"param":  "customer_name",
			"reason": "missing or empty",
		})
	}

	requested, err := parseItemRequests(args["items"])
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid items", map[string]interface{}{
			"param":  "items",
			"reason": err.Error(),
		})
	}

	order, skipped, err := s.orders.CreateOrder(ctx, customerName, requested)
	if err != nil {
		return nil, domainError(err, "failed to create order")
	}

	response := orderResponse(order)
	if len(skipped) > 0 {
		notices := make([]interface{}, 0, len(skipped))
		for _, sk := range skipped {
			notices = append(notices, map[string]interface{}{
				"product_id": sk.ProductID,
				"quantity":   sk.Quantity,
				"reason":     sk.Reason,
			})
		}
		response["skipped_items"] = notices
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleGetOrder handles the get_order tool invocation
func (s *Server) handleGetOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	orderID, err := getInt64(args, "order_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order_id", map[string]interface{}{
			"param":  "order_id",
			"reason": err.Error(),
		})
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, domainError(err, "failed to get order")
	}

	return mcp.NewToolResultText(formatJSON(orderResponse(order))), nil
}

// handleUpdateOrder handles the update_order tool invocation
func (s *Server) handleUpdateOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	orderID, err := getInt64(args, "order_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order_id", map[string]interface{}{
			"param":  "order_id",
			"reason": err.Error(),
		})
	}

	customerName, ok := args["customer_name"].(string)
	if !ok || customerName == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "customer_name parameter is required", map[string]interface{}{
			"param":  "customer_name",
			"reason": "missing or empty",
		})
	}

	createdAtRaw, ok := args["created_at"].(string)
	if !ok || createdAtRaw == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "created_at parameter is required", map[string]interface{}{
			"param":  "created_at",
			"reason": "missing or empty",
		})
	}
	createdAt, err := time.Parse(time.RFC3339, createdAtRaw)
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "created_at must be RFC 3339", map[string]interface{}{
			"param":  "created_at",
			"reason": err.Error(),
		})
	}

	order, err := s.orders.UpdateOrderHeader(ctx, orderID, customerName, createdAt)
	if err != nil {
		return nil, domainError(err, "failed to update order")
	}

	return mcp.NewToolResultText(formatJSON(orderResponse(order))), nil
}

// handleAddOrderItem handles the add_order_item tool invocation
func (s *Server) handleAddOrderItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	orderID, err := getInt64(args, "order_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order_id", map[string]interface{}{
			"param":  "order_id",
			"reason": err.Error(),
		})
	}

	productID, err := getInt64(args, "product_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid product_id", map[string]interface{}{
			"param":  "product_id",
			"reason": err.Error(),
		})
	}

	quantity, err := getInt(args, "quantity")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid quantity", map[string]interface{}{
			"param":  "quantity",
			"reason": err.Error(),
		})
	}

	item, err := s.orders.AddItem(ctx, orderID, productID, quantity)
	if err != nil {
		return nil, domainError(err, "failed to add order item")
	}

	return mcp.NewToolResultText(formatJSON(itemResponse(item))), nil
}

// handleEditOrderItem handles the edit_order_item tool invocation
func (s *Server) handleEditOrderItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	orderID, err := getInt64(args, "order_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order_id", map[string]interface{}{
			"param":  "order_id",
			"reason": err.Error(),
		})
	}

	itemID, err := getInt64(args, "item_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid item_id", map[string]interface{}{
			"param":  "item_id",
			"reason": err.Error(),
		})
	}

	quantity, err := getInt(args, "quantity")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid quantity", map[string]interface{}{
			"param":  "quantity",
			"reason": err.Error(),
		})
	}

	item, err := s.orders.EditItemQuantity(ctx, orderID, itemID, quantity)
	if err != nil {
		return nil, domainError(err, "failed to edit order item")
	}

	return mcp.NewToolResultText(formatJSON(itemResponse(item))), nil
}

// handleRemoveOrderItem handles the remove_order_item tool invocation
func (s *Server) handleRemoveOrderItem(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	orderID, err := getInt64(args, "order_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order_id", map[string]interface{}{
			"param":  "order_id",
			"reason": err.Error(),
		})
	}

	itemID, err := getInt64(args, "item_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid item_id", map[string]interface{}{
			"param":  "item_id",
			"reason": err.Error(),
		})
	}

	if err := s.orders.RemoveItem(ctx, orderID, itemID); err != nil {
		return nil, domainError(err, "failed to remove order item")
	}

	response := map[string]interface{}{
		"removed":  true,
		"order_id": orderID,
		"item_id":  itemID,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleDeleteOrder handles the delete_order tool invocation
func (s *Server) handleDeleteOrder(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	orderID, err := getInt64(args, "order_id")
	if err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid order_id", map[string]interface{}{
			"param":  "order_id",
			"reason": err.Error(),
		})
	}

	if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
		return nil, domainError(err, "failed to delete order")
	}

	response := map[string]interface{}{
		"deleted":  true,
		"order_id": orderID,
	}
	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// domainError maps a domain error onto the MCP error code taxonomy. Unknown
// errors become internal errors with the given message.
func domainError(err error, message string) error {
	data := map[string]interface{}{"error": err.Error()}
	switch {
	case errors.Is(err, types.ErrOrderNotFound):
		return newMCPError(ErrorCodeOrderNotFound, err.Error(), nil)
	case errors.Is(err, types.ErrProductNotFound):
		return newMCPError(ErrorCodeProductNotFound, err.Error(), nil)
	case errors.Is(err, types.ErrItemNotFound):
		return newMCPError(ErrorCodeItemNotFound, err.Error(), nil)
	case errors.Is(err, types.ErrEmptyCustomerName),
		errors.Is(err, types.ErrEmptyProductName),
		errors.Is(err, types.ErrNonPositiveQty),
		errors.Is(err, types.ErrNonPositivePrice),
		errors.Is(err, types.ErrNegativeStock):
		return newMCPError(ErrorCodeValidation, err.Error(), nil)
	default:
		return newMCPError(ErrorCodeInternalError, message, data)
	}
}

// parseItemRequests decodes the items argument of create_order
func parseItemRequests(raw interface{}) ([]types.ItemRequest, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, errors.New("items must be an array")
	}

	requested := make([]types.ItemRequest, 0, len(list))
	for i, entry := range list {
		obj, ok := entry.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("items[%d] must be an object", i)
		}
		productID, err := getInt64(obj, "product_id")
		if err != nil {
			return nil, fmt.Errorf("items[%d].product_id: %w", i, err)
		}
		quantity, err := getInt(obj, "quantity")
		if err != nil {
			return nil, fmt.Errorf("items[%d].quantity: %w", i, err)
		}
		requested = append(requested, types.ItemRequest{ProductID: productID, Quantity: quantity})
	}
	return requested, nil
}

// formatJSON formats a map as indented JSON
func formatJSON(data map[string]interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getInt64 extracts a required integer parameter as int64
func getInt64(args map[string]interface{}, key string) (int64, error) {
	switch val := args[key].(type) {
	case float64:
		if val != float64(int64(val)) {
			return 0, fmt.Errorf("%s must be an integer", key)
		}
		return int64(val), nil
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case json.Number:
		return val.Int64()
	case nil:
		return 0, fmt.Errorf("%s is required", key)
	default:
		return 0, fmt.Errorf("%s must be an integer", key)
	}
}

// getInt extracts a required integer parameter
func getInt(args map[string]interface{}, key string) (int, error) {
	v, err := getInt64(args, key)
	if err != nil {
		return 0, err
	}
	return int(v), nil
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if _, present := args[key]; !present {
		return defaultValue
	}
	if v, err := getInt(args, key); err == nil {
		return v
	}
	return defaultValue
}

// getDecimal extracts a required decimal parameter. Accepts a decimal string
// ("149.90") or a JSON number; strings are preferred since they carry exact
// precision.
func getDecimal(args map[string]interface{}, key string) (decimal.Decimal, error) {
	switch val := args[key].(type) {
	case string:
		if val == "" {
			return decimal.Zero, fmt.Errorf("%s is required", key)
		}
		d, err := decimal.NewFromString(val)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s is not a valid decimal: %w", key, err)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(val), nil
	case json.Number:
		d, err := decimal.NewFromString(val.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("%s is not a valid decimal: %w", key, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, fmt.Errorf("%s is required", key)
	default:
		return decimal.Zero, fmt.Errorf("%s must be a decimal string or number", key)
	}
}

// Response formatters

func productResponse(p *types.Product) map[string]interface{} {
	response := map[string]interface{}{
		"id":             p.ID,
		"name":           p.Name,
		"unit_price":     p.UnitPrice.String(),
		"stock_quantity": p.StockQuantity,
		"created_at":     p.CreatedAt.Format(time.RFC3339),
		"updated_at":     p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Description != nil {
		response["description"] = *p.Description
	}
	return response
}

func orderResponse(o *types.Order) map[string]interface{} {
	items := make([]interface{}, 0, len(o.Items))
	for i := range o.Items {
		items = append(items, itemResponse(&o.Items[i]))
	}
	return map[string]interface{}{
		"id":            o.ID,
		"reference":     o.Reference,
		"customer_name": o.CustomerName,
		"created_at":    o.CreatedAt.Format(time.RFC3339),
		"updated_at":    o.UpdatedAt.Format(time.RFC3339),
		"total_amount":  o.TotalAmount.String(),
		"items":         items,
	}
}

func itemResponse(it *types.LineItem) map[string]interface{} {
	return map[string]interface{}{
		"id":           it.ID,
		"order_id":     it.OrderID,
		"product_id":   it.ProductID,
		"product_name": it.ProductName,
		"unit_price":   it.UnitPrice.String(),
		"quantity":     it.Quantity,
		"line_total":   it.LineTotal.String(),
		"created_at":   it.CreatedAt.Format(time.RFC3339),
	}
}
