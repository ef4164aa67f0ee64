package pipeline

import (
	"github.com/roach88/cjsongen/internal/cgen"
	"github.com/roach88/cjsongen/internal/node"
	"github.com/roach88/cjsongen/internal/store"
)

func artifactFromResult(r Result, build string, settings map[string]any) (store.Artifact, error) {
	js, err := store.MarshalSettings(settings)
	if err != nil {
		return store.Artifact{}, err
	}
	return store.Artifact{
		Key:         r.Key,
		Fingerprint: r.Fingerprint,
		StructName:  r.Name,
		Settings:    js,
		Types:       r.Unit.Types,
		SerDefs:     r.Unit.SerDefs,
		SerImpls:    r.Unit.SerImpls,
		DeDefs:      r.Unit.DeDefs,
		DeImpls:     r.Unit.DeImpls,
		BuildID:     build,
	}, nil
}

// unitFromArtifact rebuilds a unit. Name and TypeName are not stored so
// they come from idx.
func unitFromArtifact(a store.Artifact, idx *node.Index) cgen.Unit {
	root := idx.Root().Key
	return cgen.Unit{
		Name:     idx.Path(root),
		TypeName: idx.TypeName(root),
		Types:    a.Types,
		SerDefs:  a.SerDefs,
		SerImpls: a.SerImpls,
		DeDefs:   a.DeDefs,
		DeImpls:  a.DeImpls,
	}
}
