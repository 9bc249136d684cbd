package internal

// ProjectedFolder is one folder's slice of the grouped view: its live member
// identities in stored order.
type ProjectedFolder struct {
	ID        string
	Name      string
	Collapsed bool
	Members   []string
}

// Projection is the derived grouping rendered by the shadow view: folders in
// owner order followed by the synthetic uncategorized bucket. It is
// recomputed from scratch on every rebuild and never mutated in place.
type Projection struct {
	Folders       []ProjectedFolder
	Uncategorized []string
}

// BuildProjection groups the currently known item identities by folder.
// folders must already be in owner order; known must be in live display
// order. Stored identities with no live counterpart are skipped, not purged.
// Each identity lands in at most one folder; everything unclaimed goes to
// Uncategorized in live order.
func BuildProjection(folders []*Folder, known []string) Projection {
	knownSet := make(map[string]bool, len(known))
	for _, id := range known {
		knownSet[id] = true
	}

	assigned := make(map[string]bool)
	proj := Projection{Folders: make([]ProjectedFolder, 0, len(folders))}

	for _, f := range folders {
		pf := ProjectedFolder{
			ID:        f.ID,
			Name:      f.Name,
			Collapsed: f.Collapsed,
		}
		for _, chat := range f.Chats {
			if !knownSet[chat] || assigned[chat] {
				continue
			}
			assigned[chat] = true
			pf.Members = append(pf.Members, chat)
		}
		proj.Folders = append(proj.Folders, pf)
	}

	for _, id := range known {
		if !assigned[id] {
			proj.Uncategorized = append(proj.Uncategorized, id)
		}
	}

	return proj
}
