// Package libris summarizes directories of PDF books with a hosted chat
// model and indexes the summaries for semantic retrieval.
//
// An Engine built from a config.Config exposes the four operations of the
// libris command: Ask, Summarize, NewSearcher and NewReembedder.
//
//	cfg, err := config.Load(".env")
//	if err != nil {
//	    return err
//	}
//	engine, err := libris.NewEngine(cfg)
//	if err != nil {
//	    return err
//	}
//	defer engine.Close()
//
//	err = engine.Summarize(ctx, cfg.DocsDir)
package libris
