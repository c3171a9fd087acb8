// Package searchretriever is the Go entry point for hybrid retrieval over an
// Azure AI Search index.
//
// A query is sent once as keyword text and once as a vector query, re-ranked
// by the index's semantic configuration, and the top hits come back as flat
// records. Every call returns a non-empty list: when nothing matched, or the
// search service failed, the list holds one "No Results" record.
//
// # Credentials from Azure Key Vault
//
//	c, _ := searchretriever.New(ctx, searchretriever.WithKeyVault("akvlab00"))
//	defer c.Close()
//	for _, r := range c.Retrieve(ctx, "What is the refund policy?") {
//	    fmt.Println(r.DocumentTitle, r.RerankerScore)
//	}
//
// # Explicit endpoint
//
//	c, _ := searchretriever.New(ctx,
//	    searchretriever.WithSearch("https://my-search.search.windows.net", key),
//	    searchretriever.WithIndex("docs-index"),
//	    searchretriever.WithTop(5),
//	)
//
// # Agent frameworks
//
// Client.Tool returns a langchaingo tool and Client.Retriever a langchaingo
// document retriever, both backed by the same client.
package searchretriever
