package parser

import (
	"sort"
	"time"

	"github.com/dastanaron/bookmarks-convert/internal/models"
	"github.com/dastanaron/bookmarks-convert/internal/repository"
	"github.com/dastanaron/bookmarks-convert/internal/timestamp"
)

// TopLevelFolderName replaces the internal label of record id 1
const TopLevelFolderName = "subroot"

const (
	superRootID = 0
	topLevelID  = 1
)

// ParseSQLite reads a places.sqlite store
func (p *Parser) ParseSQLite(path, rootName string) (models.Node, error) {
	repo, err := repository.NewSQLiteRepository(path)
	if err != nil {
		return models.Node{}, &FormatError{Format: FormatSQLite, Path: path, Err: err}
	}
	defer repo.Close()

	return p.parsePlaces(repo, rootName, path)
}

func (p *Parser) parsePlaces(repo repository.PlacesRepository, rootName, path string) (models.Node, error) {
	records, err := repo.Records()
	if err != nil {
		return models.Node{}, &FormatError{Format: FormatSQLite, Path: path, Err: err}
	}
	return p.BuildPlacesTree(records, rootName), nil
}

type placeEntry struct {
	rec      repository.PlaceRecord
	children []int64
}

// BuildPlacesTree links flat parent-pointer records into a tree rooted at
// record 0. Records are indexed by id first and then linked onto their
// parent in ascending id order, so siblings keep the store's order.
func (p *Parser) BuildPlacesTree(records []repository.PlaceRecord, rootName string) models.Node {
	index := make(map[int64]*placeEntry, len(records)+1)
	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		if _, dup := index[rec.ID]; dup {
			p.diag.Structural("duplicate record id=%d %q skipped", rec.ID, rec.Title)
			continue
		}
		index[rec.ID] = &placeEntry{rec: rec}
		ids = append(ids, rec.ID)
	}
	if _, ok := index[superRootID]; !ok {
		index[superRootID] = &placeEntry{rec: repository.PlaceRecord{ID: superRootID, Type: repository.TypeFolder}}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if id == superRootID {
			continue
		}
		entry := index[id]
		if entry.rec.ParentID == nil {
			p.diag.Structural("orphaned record id=%d %q: no parent", id, entry.rec.Title)
			continue
		}
		parentID := *entry.rec.ParentID
		parent, ok := index[parentID]
		if !ok || parentID == id {
			p.diag.Structural("orphaned record id=%d %q: parent id=%d not found", id, entry.rec.Title, parentID)
			continue
		}
		parent.children = append(parent.children, id)
	}

	// every record has one parent and nothing points at 0, so the walk
	// from 0 cannot loop
	var build func(id int64) (models.Node, bool)
	build = func(id int64) (models.Node, bool) {
		entry := index[id]
		rec := entry.rec

		if id == superRootID || id == topLevelID || len(entry.children) > 0 || rec.Type == repository.TypeFolder {
			name := rec.Title
			switch {
			case id == topLevelID:
				name = TopLevelFolderName
			case id == superRootID && name == "":
				name = rootName
			}
			folder := &models.Folder{Name: name}
			for _, childID := range entry.children {
				if child, ok := build(childID); ok {
					folder.Append(child)
				}
			}
			return models.Node{Type: models.ItemTypeFolder, Folder: folder}, true
		}

		if rec.URL == "" {
			if rec.Type == repository.TypeSeparator {
				p.diag.Structural("separator id=%d skipped", id)
			} else {
				p.diag.Structural("record id=%d %q has neither children nor url, skipped", id, rec.Title)
			}
			return models.Node{}, false
		}

		b := &models.Bookmark{Title: rec.Title, URL: rec.URL}
		if rec.DateAdded != nil && *rec.DateAdded != 0 {
			b.AddedAt = timestamp.Normalize(*rec.DateAdded, timestamp.Microseconds)
		} else {
			b.AddedAt = timestamp.Epoch
			p.diag.MissingField("bookmark id=%d %q has no dateAdded, using %s", id, rec.Title, timestamp.FormatISO(timestamp.Epoch))
		}
		b.ModifiedAt = optionalMicros(rec.LastModified)
		b.VisitedAt = optionalMicros(rec.LastVisit)
		return models.NewBookmarkNode(b), true
	}

	root, _ := build(superRootID)
	return root
}

func optionalMicros(v *int64) *time.Time {
	if v == nil || *v == 0 {
		return nil
	}
	t := timestamp.Normalize(*v, timestamp.Microseconds)
	return &t
}
