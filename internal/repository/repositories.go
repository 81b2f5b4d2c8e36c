package repository

// Repositories is a container for all repository instances.
type Repositories struct {
	Dao     *Dao
	UserDao *UserDao
}

// NewRepositories constructs the repository container.
func NewRepositories() *Repositories {
	return &Repositories{
		Dao:     NewDao(),
		UserDao: NewUserDao(),
	}
}
