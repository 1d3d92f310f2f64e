package mongostore

import (
	"time"

	"github.com/huangang/taskhub/backend/internal/store"
	"go.mongodb.org/mongo-driver/bson"
)

func idsFilter(ids []string) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}

// ownerOrMemberFilter matches projects owned by userID or listing it in members.
func ownerOrMemberFilter(userID string) bson.M {
	return bson.M{"$or": bson.A{
		bson.M{"owner": userID},
		bson.M{"members": userID},
	}}
}

func projectUpdateDoc(update store.ProjectUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.StartDate != nil {
		set["startDate"] = *update.StartDate
	}
	if update.EndDate != nil {
		set["endDate"] = *update.EndDate
	}
	return bson.M{"$set": set}
}

func taskUpdateDoc(update store.TaskUpdate, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}
	return bson.M{"$set": set}
}

// touchDoc bumps a counter nobody reads. Two transactions touching the same
// project conflict, which is how FindByIDForUpdate serializes writers.
func touchDoc() bson.M {
	return bson.M{"$inc": bson.M{"lockSeq": 1}}
}

// orphanFilter matches tasks created before cutoff whose projectId is not
// among live project ids. Tasks newer than cutoff may belong to a project
// created after the ids were read and are left for the next sweep.
func orphanFilter(projectIDs []interface{}, cutoff time.Time) bson.M {
	if projectIDs == nil {
		projectIDs = []interface{}{}
	}
	return bson.M{
		"projectId": bson.M{"$nin": projectIDs},
		"createdAt": bson.M{"$lt": cutoff},
	}
}

// uniqueMembers drops duplicate ids and keeps first-seen order.
func uniqueMembers(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
