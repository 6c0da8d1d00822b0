package ica

import (
	"context"
	"fmt"
	"net/url"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type productItem struct {
	ProductName string `json:"ProductName"`
}

type syncRequest struct {
	CreatedRows []productItem `json:"CreatedRows"`
}

// PostItems adds every name to the list as a new row in a single sync request.
func (c *Client) PostItems(ctx context.Context, listId string, names []string) error {
	ctx, span := tracer.Start(ctx, "client:PostItems")
	defer span.End()
	span.SetAttributes(
		attribute.String("ica.offline_id", listId),
		attribute.Int("ica.items", len(names)),
	)

	rows := make([]productItem, len(names))
	for i, name := range names {
		rows[i] = productItem{ProductName: name}
	}

	req, err := c.request(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	res, err := req.
		SetBody(syncRequest{CreatedRows: rows}).
		Post(fmt.Sprintf("/api/user/offlineshoppinglists/%s/sync", url.PathEscape(listId)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_post_items, fmt.Errorf("request: %w", err))
		return fmt.Errorf("post items: %w", err)
	}
	if !res.IsSuccess() {
		err := &StatusError{Op: "post items", StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_post_items, err, listId)
		return err
	}

	c.tel.ReportCount(report_client_post_items, int64(len(rows)))
	return nil
}
