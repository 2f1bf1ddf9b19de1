package account

// WriteSet is a proposed partial write. A nil field is absent from the write
// and leaves the stored column untouched.
type WriteSet struct {
	Email      *string
	Password   *string
	PlayerTags *[]string
	ClubTags   *[]string
}

func (w WriteSet) HasPassword() bool { return w.Password != nil }

func (w WriteSet) Empty() bool {
	return w.Email == nil && w.Password == nil && w.PlayerTags == nil && w.ClubTags == nil
}

// Fields lists the json names of the fields present in the write.
func (w WriteSet) Fields() []string {
	out := make([]string, 0, 4)
	if w.Email != nil {
		out = append(out, "email")
	}
	if w.Password != nil {
		out = append(out, "password")
	}
	if w.PlayerTags != nil {
		out = append(out, "player_tags")
	}
	if w.ClubTags != nil {
		out = append(out, "club_tags")
	}
	return out
}
