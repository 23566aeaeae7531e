// Package mcp implements the Model Context Protocol (MCP) server for OrderDesk.
//
// The MCP server exposes the product catalog and the order aggregate as tools
// for AI assistants:
//
//   - create_product, get_product, list_products, update_product, delete_product
//   - create_order, get_order, update_order, delete_order
//   - add_order_item, edit_order_item, remove_order_item
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output. Logging
// goes to stderr; stdout is reserved for the protocol.
//
// # Tool: create_order
//
// Create an order with an initial batch of line items:
//
//	Request:
//	{
//	  "name": "create_order",
//	  "arguments": {
//	    "customer_name": "Ada Lovelace",
//	    "items": [
//	      {"product_id": 1, "quantity": 2},
//	      {"product_id": 9, "quantity": 1}
//	    ]
//	  }
//	}
//
//	Response:
//	{
//	  "id": 1,
//	  "reference": "7b0e9a3c-...",
//	  "customer_name": "Ada Lovelace",
//	  "total_amount": "299.80",
//	  "items": [...],
//	  "skipped_items": [
//	    {"product_id": 9, "quantity": 1, "reason": "product not found"}
//	  ]
//	}
//
// Items referencing unknown products are skipped and reported; the rest of
// the batch and the order itself still go through. All monetary values are
// decimal strings.
//
// # Error Handling
//
// The server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "unit_price",
//	      "reason": "missing or empty"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32603: Internal error (database, filesystem, etc.)
//   - -32001: Order not found
//   - -32002: Product not found
//   - -32003: Line item not found on that order
//   - -32004: Validation rejected the input (empty name, non-positive quantity or price)
//
// # MCP Client Configuration
//
// Configure in an MCP client's settings:
//
//	{
//	  "mcpServers": {
//	    "orderdesk": {
//	      "command": "/usr/local/bin/orderdesk",
//	      "env": {
//	        "ORDERDESK_DB_PATH": "/var/lib/orderdesk"
//	      }
//	    }
//	  }
//	}
package mcp
