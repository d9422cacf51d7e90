package model

// Identified is implemented by every persisted entity.
type Identified interface {
	GetID() uint
}

// Owned is implemented by records attributed to the Personnel who created them.
type Owned interface {
	OwnerID() *uint
	SetOwner(id uint)
}
