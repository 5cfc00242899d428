package widget

import (
	"context"
	"errors"
)

// Card is one rendered entry of a CardListWidget, with the item
// fields remapped through the declared cardConfig keys.
type Card struct {
	Title       string `json:"title"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// CardListBody is the rendered body of a CardListWidget.
type CardListBody struct {
	Title  string `json:"title"`
	Layout string `json:"layout,omitempty"`
	Cards  []Card `json:"cards"`
}

func renderCardList(ctx context.Context, rc RenderContext) (any, error) {
	endpoint := cfgString(rc.Config, "apiEndpoint")
	cardCfg := cfgMap(rc.Config, "cardConfig")
	if endpoint == "" || cardCfg == nil {
		return nil, errors.New("missing apiEndpoint or cardConfig in widget config")
	}

	params := map[string]any{}
	for k, v := range cfgMap(rc.Config, "apiParams") {
		params[k] = v
	}
	for k, v := range rc.Filters {
		params[k] = v
	}

	raw, err := rc.Client.Fetch(ctx, endpoint, params, nil)
	if err != nil {
		return nil, err
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, errors.New("card list data is not a list of items")
	}

	titleKey := cfgString(cardCfg, "titleKey")
	imageKey := cfgString(cardCfg, "imageKey")
	descKey := cfgString(cardCfg, "descriptionKey")

	body := CardListBody{
		Title:  cfgString(rc.Config, "title"),
		Layout: cfgString(rc.Config, "layout"),
		Cards:  make([]Card, 0, len(items)),
	}
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		body.Cards = append(body.Cards, Card{
			Title:       cfgString(m, titleKey),
			Image:       cfgString(m, imageKey),
			Description: cfgString(m, descKey),
		})
	}
	return body, nil
}
