package models

// IsOwner reports whether userID owns the project.
func (p *Project) IsOwner(userID string) bool {
	return p != nil && userID != "" && p.OwnerID == userID
}

// IsMember reports whether userID is in the member set. The owner is only a
// member if explicitly added.
func (p *Project) IsMember(userID string) bool {
	if p == nil || userID == "" {
		return false
	}
	for _, id := range p.Members {
		if id == userID {
			return true
		}
	}
	return false
}

// CanManage covers metadata updates, membership changes and deletion.
func (p *Project) CanManage(userID string) bool {
	return p.IsOwner(userID)
}

func (p *Project) CanCreateTask(userID string) bool {
	return p.IsOwner(userID) || p.IsMember(userID)
}
