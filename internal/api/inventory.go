package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/tripsplit/internal/service"
)

// InventoryHandler adapts service.InventoryService to the wire types.
type InventoryHandler struct {
	svc *service.InventoryService
}

// RegisterInventory mounts every inventory procedure on mux.
func RegisterInventory(mux *http.ServeMux, svc *service.InventoryService, opts ...connect.HandlerOption) {
	h := &InventoryHandler{svc: svc}
	o := handlerOptions(opts)

	unary(mux, AddProductProcedure, h.AddProduct, o)
	unary(mux, UpdateProductProcedure, h.UpdateProduct, o)
	unary(mux, DeleteProductProcedure, h.DeleteProduct, o)
	unary(mux, ListProductsProcedure, h.ListProducts, o)
	unary(mux, NextSerialProcedure, h.NextSerial, o)
	unary(mux, GetStatsProcedure, h.GetStats, o)
}

func (h *InventoryHandler) AddProduct(ctx context.Context, req *AddProductRequest) (*ProductResponse, error) {
	p, err := h.svc.AddProduct(ctx, req.BoardID, req.ProductFields.input())
	if err != nil {
		return nil, err
	}
	return &ProductResponse{Product: productToWire(p)}, nil
}

func (h *InventoryHandler) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*ProductResponse, error) {
	p, err := h.svc.UpdateProduct(ctx, req.BoardID, req.ProductID, req.ProductFields.input())
	if err != nil {
		return nil, err
	}
	return &ProductResponse{Product: productToWire(p)}, nil
}

func (h *InventoryHandler) DeleteProduct(ctx context.Context, req *DeleteProductRequest) (*Empty, error) {
	if err := h.svc.DeleteProduct(ctx, req.BoardID, req.ProductID); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func (h *InventoryHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	products, err := h.svc.ListProducts(ctx, req.BoardID, req.filter())
	if err != nil {
		return nil, err
	}
	resp := &ListProductsResponse{Products: make([]Product, len(products))}
	for i := range products {
		resp.Products[i] = productToWire(&products[i])
	}
	return resp, nil
}

func (h *InventoryHandler) NextSerial(ctx context.Context, req *BoardRequest) (*NextSerialResponse, error) {
	serial, err := h.svc.NextSerial(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	return &NextSerialResponse{SerialNumber: serial}, nil
}

func (h *InventoryHandler) GetStats(ctx context.Context, req *BoardRequest) (*StatsResponse, error) {
	stats, err := h.svc.Stats(ctx, req.BoardID)
	if err != nil {
		return nil, err
	}
	return statsToWire(stats), nil
}
