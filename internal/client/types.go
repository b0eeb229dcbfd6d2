package client

// Dorm is a building grouping multiple rooms.
type Dorm struct {
	ID   string
	Name string
}

// Occupant is a student currently assigned to a room.
type Occupant struct {
	Name string
}

// Room is an assignable unit with a fixed capacity.
type Room struct {
	ID        string
	DormID    string
	Number    string
	Capacity  int
	Occupants []Occupant
}

// Full reports whether the room was at capacity when it was last fetched.
// Advisory only; the server is the authority at assignment time.
func (r Room) Full() bool {
	return len(r.Occupants) >= r.Capacity
}

// UserInfo is the current user's projection, including the assigned room.
type UserInfo struct {
	ID             string
	Email          string
	Name           string
	AssignedRoomID *string
}

// Wire payloads. Field names follow the server contract exactly.

type dormPayload struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

type roomPayload struct {
	ID              string `json:"_id"`
	Number          string `json:"number"`
	Capacity        int    `json:"capacity"`
	CurrentStudents []struct {
		Name string `json:"name"`
	} `json:"currentStudents"`
}

type userInfoPayload struct {
	User struct {
		ID           string  `json:"_id"`
		Email        string  `json:"email"`
		Name         string  `json:"name"`
		AssignedRoom *string `json:"assignedRoom"`
	} `json:"user"`
}
