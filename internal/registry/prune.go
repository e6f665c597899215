package registry

import "context"

// Prune keeps only the keep newest hashes in store and returns how many
// were dropped.
func Prune(ctx context.Context, store Store, keep int) (int, error) {
	set := store.Load(ctx)
	if keep < 0 {
		keep = 0
	}
	if set.Len() <= keep {
		return 0, nil
	}
	pruned := NewSet(set.Newest(keep)...)
	if err := store.Save(ctx, pruned); err != nil {
		return 0, err
	}
	return set.Len() - pruned.Len(), nil
}
