// Package feedex provides an embeddable Go client for feed listings
// served from a Redis search index and hydrated from Postgres.
//
// The client owns both connections and exposes the same read path and
// reconciliation job as the feedex HTTP service.
//
//	client, _ := feedex.New(ctx,
//	    feedex.WithRedis("localhost:6379", ""),
//	    feedex.WithPostgres("postgres://feedex@localhost/feedex?sslmode=disable"),
//	)
//	defer client.Close()
//
//	page, _ := client.ListFeeds(ctx, feedex.ListParams{
//	    SortBy: feedex.SortByLikeCount, Limit: 20,
//	})
//
//	for item, err := range client.AllFeeds(ctx, feedex.ListParams{Keyword: "sunny"}) {
//	    ...
//	}
package feedex
