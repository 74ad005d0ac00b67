// Package gallerydex ranks photo galleries by free-text relevance.
//
// Records are scored with fixed, explainable rules: tag hits, synonym hits in
// tags, whole-phrase and per-term hits in the text fields, synonym hits in the
// text fields and a category boost. A built-in English/German synonym table
// widens queries such as "evening" to "sunset", "dusk" or "abend". A blank
// query lists the whole gallery in random order.
//
// # Low-level API
//
//	engine, _ := gallerydex.NewEngine(gallerydex.WithSynonyms(map[string][]string{
//	    "drone": {"aerial", "luftbild"},
//	}))
//	page := engine.Rank(images, "evening lake", 1, 12)
//	why := engine.Explain(page.Items[0], "evening lake")
//
// # High-level API, schema-first with Go generics
//
//	type Photo struct {
//	    Slug     string   `gallerydex:"id"`
//	    Caption  string   `gallerydex:"title"`
//	    Album    string   `gallerydex:"category"`
//	    Keywords []string `gallerydex:"tags"`
//	}
//
//	idx, _ := gallerydex.NewIndex(engine, photos)
//	res := idx.Search().Query("wedding").Limit(20).Do()
package gallerydex
