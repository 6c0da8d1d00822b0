package ica

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"recipecart/lib/textutil"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ShoppingList is a reference to one of the account's offline shopping lists.
type ShoppingList struct {
	Title     string `json:"Title"`
	OfflineId string `json:"OfflineId"`
}

type shoppingListsResponse struct {
	ShoppingLists []ShoppingList `json:"ShoppingLists"`
}

type createListRequest struct {
	OfflineId    string `json:"OfflineId"`
	Title        string `json:"Title"`
	SortingStore int    `json:"SortingStore"`
}

func (c *Client) ListShoppingLists(ctx context.Context) ([]ShoppingList, error) {
	ctx, span := tracer.Start(ctx, "client:ListShoppingLists")
	defer span.End()

	req, err := c.request(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	res, err := req.Get("/api/user/offlineshoppinglists")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_list_shopping_lists, fmt.Errorf("request: %w", err))
		return nil, fmt.Errorf("list shopping lists: %w", err)
	}
	if !res.IsSuccess() {
		err := &StatusError{Op: "list shopping lists", StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_list_shopping_lists, err)
		return nil, err
	}

	var body shoppingListsResponse
	err = json.Unmarshal(res.Body(), &body)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_list_shopping_lists, fmt.Errorf("decode: %w", err))
		return nil, fmt.Errorf("list shopping lists: decode: %w", err)
	}
	span.SetAttributes(attribute.Int("ica.lists", len(body.ShoppingLists)))
	return body.ShoppingLists, nil
}

// FindList returns the offline id of the first list titled exactly `title`.
func FindList(lists []ShoppingList, title string) (string, bool) {
	for _, l := range lists {
		if l.Title == title {
			return l.OfflineId, true
		}
	}
	return "", false
}

func countTitle(lists []ShoppingList, title string) int {
	n := 0
	for _, l := range lists {
		if l.Title == title {
			n++
		}
	}
	return n
}

// SimilarTitles returns the titles of lists that are close to, but not
// exactly, `title`.
func SimilarTitles(lists []ShoppingList, title string) []string {
	target := textutil.NormalizeName(title)
	var out []string
	for _, l := range lists {
		if l.Title == title {
			continue
		}
		if matchr.JaroWinkler(textutil.NormalizeName(l.Title), target, false) >= 0.85 {
			out = append(out, l.Title)
		}
	}
	return out
}

// CreateList creates a list titled `title` under a fresh offline id, then
// fetches the lists again and only succeeds if the new list shows up.
func (c *Client) CreateList(ctx context.Context, title string) (string, error) {
	ctx, span := tracer.Start(ctx, "client:CreateList")
	defer span.End()

	offlineId, err := newOfflineId(c.random)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_create_list, err)
		return "", err
	}
	span.SetAttributes(attribute.String("ica.offline_id", offlineId))

	req, err := c.request(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	res, err := req.
		SetBody(createListRequest{
			OfflineId:    offlineId,
			Title:        title,
			SortingStore: 0,
		}).
		Post("/api/user/offlineshoppinglists")
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_create_list, fmt.Errorf("request: %w", err))
		return "", fmt.Errorf("create list: %w", err)
	}
	if !res.IsSuccess() {
		err := &StatusError{Op: "create list", StatusCode: res.StatusCode()}
		span.SetStatus(codes.Error, err.Error())
		c.tel.ReportBroken(report_client_create_list, err, title)
		return "", err
	}

	lists, err := c.ListShoppingLists(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", fmt.Errorf("verify created list: %w", err)
	}
	id, ok := FindList(lists, title)
	if !ok {
		span.SetStatus(codes.Error, ErrListNotCreated.Error())
		c.tel.ReportBroken(report_client_create_list, ErrListNotCreated, title)
		return "", fmt.Errorf("%q: %w", title, ErrListNotCreated)
	}
	return id, nil
}

// ResolveList finds the list titled `title`, creating it when the account
// has none.
func (c *Client) ResolveList(ctx context.Context, title string) (id string, created bool, err error) {
	ctx, span := tracer.Start(ctx, "client:ResolveList")
	defer span.End()

	lists, err := c.ListShoppingLists(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", false, err
	}

	if n := countTitle(lists, title); n > 1 {
		c.tel.ReportWarning(
			report_client_resolve_list,
			fmt.Errorf("%d lists share the title %q, using the first", n, title),
		)
	}

	id, ok := FindList(lists, title)
	if ok {
		slog.InfoContext(ctx, "found shopping list", "title", title, "offline_id", id)
		return id, false, nil
	}

	similar := SimilarTitles(lists, title)
	if len(similar) > 0 {
		slog.WarnContext(ctx, "no list with this exact title, creating it", "title", title, "similar", similar)
	}

	id, err = c.CreateList(ctx, title)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", false, err
	}
	slog.InfoContext(ctx, "created shopping list", "title", title, "offline_id", id)
	return id, true, nil
}
