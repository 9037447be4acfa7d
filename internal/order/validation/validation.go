// Package validation holds the checkout input schemas. They are
// compiled once at startup and applied in a fixed order: address,
// then order items, then user id.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/webbutiken/storefront/internal/platform/apierror"
)

const addressSchemaJSON = `{
  "type": "object",
  "required": ["name", "email", "street", "city", "zip", "phone"],
  "properties": {
    "name":   {"type": "string", "minLength": 1},
    "email":  {"type": "string", "pattern": "^[^@\\s]+@[^@\\s]+\\.[^@\\s]+$"},
    "street": {"type": "string", "minLength": 1},
    "city":   {"type": "string", "minLength": 1},
    "zip":    {"type": "string", "pattern": "^[0-9][0-9 ]{2,9}$"},
    "phone":  {"type": "string", "minLength": 5}
  }
}`

const orderItemsSchemaJSON = `{
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["productId", "quantity", "price"],
    "properties": {
      "productId": {"type": "string", "minLength": 1},
      "quantity":  {"type": "integer", "minimum": 1},
      "price":     {"type": "number", "exclusiveMinimum": 0}
    }
  }
}`

// Stored ids are UUIDs, so the user id check is a UUID shape check.
const userIDSchemaJSON = `{
  "type": "string",
  "pattern": "^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$"
}`

var (
	addressSchema    *jsonschema.Schema
	orderItemsSchema *jsonschema.Schema
	userIDSchema     *jsonschema.Schema
)

var (
	ErrInvalidAddress = apierror.New(http.StatusBadRequest, "Your address is not in the correct format.")
	ErrInvalidItems   = apierror.New(http.StatusBadRequest, "Something wrong with the products in your order.")
	ErrInvalidUserID  = apierror.New(http.StatusBadRequest, "Something wrong with your user id.")
)

func init() {
	addressSchema = mustCompile("address", addressSchemaJSON)
	orderItemsSchema = mustCompile("order-items", orderItemsSchemaJSON)
	userIDSchema = mustCompile("user-id", userIDSchemaJSON)
}

func mustCompile(name, schema string) *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	schemaURL := fmt.Sprintf("https://webbutiken.schemas.local/orders/%s.schema.json", name)
	if err := c.AddResource(schemaURL, strings.NewReader(schema)); err != nil {
		panic(fmt.Sprintf("order schema %s load failed: %v", name, err))
	}
	compiled, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("order schema %s compile failed: %v", name, err))
	}
	return compiled
}

// toJSONValue round-trips v through encoding/json so the schema sees the
// same generic shape the wire payload had.
func toJSONValue(v interface{}) (interface{}, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var out interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}

func validate(schema *jsonschema.Schema, v interface{}, failure *apierror.APIError) error {
	value, err := toJSONValue(v)
	if err != nil {
		return failure
	}
	if err := schema.Validate(value); err != nil {
		return failure
	}
	return nil
}

func ValidateAddress(address interface{}) error {
	return validate(addressSchema, address, ErrInvalidAddress)
}

func ValidateOrderItems(items interface{}) error {
	return validate(orderItemsSchema, items, ErrInvalidItems)
}

func ValidateUserID(userID string) error {
	return validate(userIDSchema, userID, ErrInvalidUserID)
}
