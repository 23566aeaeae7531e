package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createProductTool returns the tool definition for create_product
func createProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_product",
		Description: "Add a product to the catalog",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Product name (non-empty)",
				},
				"unit_price": map[string]interface{}{
					"type":        "string",
					"description": "Unit price as a decimal string, e.g. '149.90' (must be > 0)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "Optional product description",
				},
				"stock_quantity": map[string]interface{}{
					"type":        "integer",
					"description": "Units in stock (>= 0)",
					"default":     0,
				},
			},
			Required: []string{"name", "unit_price"},
		},
	}
}

// getProductTool returns the tool definition for get_product
func getProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_product",
		Description: "Fetch a catalog product by id",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"product_id": map[string]interface{}{
					"type":        "integer",
					"description": "Product id",
				},
			},
			Required: []string{"product_id"},
		},
	}
}

// listProductsTool returns the tool definition for list_products
func listProductsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_products",
		Description: "List all catalog products",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}
}

// updateProductTool returns the tool definition for update_product
func updateProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_product",
		Description: "Update a catalog product. Existing order items keep their price snapshots",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"product_id": map[string]interface{}{
					"type":        "integer",
					"description": "Product id",
				},
				"name": map[string]interface{}{
					"type":        "string",
					"description": "New product name (non-empty)",
				},
				"unit_price": map[string]interface{}{
					"type":        "string",
					"description": "New unit price as a decimal string (must be > 0)",
				},
				"description": map[string]interface{}{
					"type":        "string",
					"description": "New product description",
				},
				"stock_quantity": map[string]interface{}{
					"type":        "integer",
					"description": "New stock level (>= 0)",
					"default":     0,
				},
			},
			Required: []string{"product_id", "name", "unit_price"},
		},
	}
}

// deleteProductTool returns the tool definition for delete_product
func deleteProductTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_product",
		Description: "Remove a product from the catalog",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"product_id": map[string]interface{}{
					"type":        "integer",
					"description": "Product id",
				},
			},
			Required: []string{"product_id"},
		},
	}
}

// createOrderTool returns the tool definition for create_order
func createOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "create_order",
		Description: "Create an order with an initial set of line items. Items referencing unknown products are skipped and reported; the order is still created",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"customer_name": map[string]interface{}{
					"type":        "string",
					"description": "Customer name (non-empty)",
				},
				"items": map[string]interface{}{
					"type":        "array",
					"description": "Requested line items, processed in order",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"product_id": map[string]interface{}{
								"type":        "integer",
								"description": "Catalog product id",
							},
							"quantity": map[string]interface{}{
								"type":        "integer",
								"description": "Quantity (must be > 0)",
							},
						},
						"required": []string{"product_id", "quantity"},
					},
				},
			},
			Required: []string{"customer_name"},
		},
	}
}

// getOrderTool returns the tool definition for get_order
func getOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_order",
		Description: "Fetch an order with all of its line items",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order id",
				},
			},
			Required: []string{"order_id"},
		},
	}
}

// updateOrderTool returns the tool definition for update_order
func updateOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "update_order",
		Description: "Update an order's customer name and creation timestamp. Items and total are untouched",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order id",
				},
				"customer_name": map[string]interface{}{
					"type":        "string",
					"description": "New customer name (non-empty)",
				},
				"created_at": map[string]interface{}{
					"type":        "string",
					"description": "New creation timestamp, RFC 3339 (e.g. '2024-03-15T10:00:00Z')",
				},
			},
			Required: []string{"order_id", "customer_name", "created_at"},
		},
	}
}

// addOrderItemTool returns the tool definition for add_order_item
func addOrderItemTool() mcp.Tool {
	return mcp.Tool{
		Name:        "add_order_item",
		Description: "Add a line item to an order, snapshotting the product's current name and price and recomputing the order total",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order id",
				},
				"product_id": map[string]interface{}{
					"type":        "integer",
					"description": "Catalog product id",
				},
				"quantity": map[string]interface{}{
					"type":        "integer",
					"description": "Quantity (must be > 0)",
				},
			},
			Required: []string{"order_id", "product_id", "quantity"},
		},
	}
}

// editOrderItemTool returns the tool definition for edit_order_item
func editOrderItemTool() mcp.Tool {
	return mcp.Tool{
		Name:        "edit_order_item",
		Description: "Change a line item's quantity. The stored unit price is reused; the line total and order total are recomputed together",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order id owning the item",
				},
				"item_id": map[string]interface{}{
					"type":        "integer",
					"description": "Line item id",
				},
				"quantity": map[string]interface{}{
					"type":        "integer",
					"description": "New quantity (must be > 0)",
				},
			},
			Required: []string{"order_id", "item_id", "quantity"},
		},
	}
}

// removeOrderItemTool returns the tool definition for remove_order_item
func removeOrderItemTool() mcp.Tool {
	return mcp.Tool{
		Name:        "remove_order_item",
		Description: "Remove a line item from an order and recompute the order total",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order id owning the item",
				},
				"item_id": map[string]interface{}{
					"type":        "integer",
					"description": "Line item id",
				},
			},
			Required: []string{"order_id", "item_id"},
		},
	}
}

// deleteOrderTool returns the tool definition for delete_order
func deleteOrderTool() mcp.Tool {
	return mcp.Tool{
		Name:        "delete_order",
		Description: "Delete an order and all of its line items",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"order_id": map[string]interface{}{
					"type":        "integer",
					"description": "Order id",
				},
			},
			Required: []string{"order_id"},
		},
	}
}
