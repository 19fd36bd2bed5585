package projects

import hostprojects "github.com/goliatone/go-dochost/projects"

type (
	Project             = hostprojects.Project
	ProjectRelationship = hostprojects.ProjectRelationship
	Version             = hostprojects.Version
	Domain              = hostprojects.Domain
)
