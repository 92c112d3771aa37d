package services

import (
	"context"
	"fmt"

	"github.com/sahilchouksey/pandiu-api/repository"
)

// cascade deletes a row together with everything that depends on it, inside
// the transaction tx. Document keys of deleted publications are collected so
// the objects can be removed once the transaction has committed.
type cascade struct {
	tx      repository.Store
	orphans []string
}

func (c *cascade) faculty(ctx context.Context, id uint) error {
	programs, err := c.tx.Programs().ListByFaculty(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list programs of faculty %d: %w", id, err)
	}
	for _, program := range programs {
		if err := c.program(ctx, program.ID); err != nil {
			return err
		}
	}
	return c.tx.Faculties().Delete(ctx, id)
}

func (c *cascade) program(ctx context.Context, id uint) error {
	users, err := c.tx.Users().ListByProgram(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list users of program %d: %w", id, err)
	}
	for _, user := range users {
		if err := c.user(ctx, user.ID); err != nil {
			return err
		}
	}
	return c.tx.Programs().Delete(ctx, id)
}

func (c *cascade) user(ctx context.Context, id uint) error {
	links, err := c.tx.UserTypeLinks().ListByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list user types of user %d: %w", id, err)
	}
	for _, link := range links {
		if err := c.tx.UserTypeLinks().Delete(ctx, link.ID); err != nil {
			return err
		}
	}

	publications, err := c.tx.Publications().ListByUser(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list publications of user %d: %w", id, err)
	}
	for _, publication := range publications {
		if err := c.publication(ctx, publication.ID); err != nil {
			return err
		}
	}
	return c.tx.Users().Delete(ctx, id)
}

func (c *cascade) userType(ctx context.Context, id uint) error {
	links, err := c.tx.UserTypeLinks().ListByUserType(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list users of user type %d: %w", id, err)
	}
	for _, link := range links {
		if err := c.tx.UserTypeLinks().Delete(ctx, link.ID); err != nil {
			return err
		}
	}
	return c.tx.UserTypes().Delete(ctx, id)
}

func (c *cascade) researchGroup(ctx context.Context, id uint) error {
	publications, err := c.tx.Publications().ListByResearchGroup(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list publications of research group %d: %w", id, err)
	}
	for _, publication := range publications {
		if err := c.publication(ctx, publication.ID); err != nil {
			return err
		}
	}
	return c.tx.ResearchGroups().Delete(ctx, id)
}

func (c *cascade) publicationType(ctx context.Context, id uint) error {
	publications, err := c.tx.Publications().ListByPublicationType(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list publications of type %d: %w", id, err)
	}
	for _, publication := range publications {
		if err := c.publication(ctx, publication.ID); err != nil {
			return err
		}
	}
	return c.tx.PublicationTypes().Delete(ctx, id)
}

func (c *cascade) keyword(ctx context.Context, id uint) error {
	links, err := c.tx.PublicationKeywords().ListByKeyword(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list publications of keyword %d: %w", id, err)
	}
	for _, link := range links {
		if err := c.tx.PublicationKeywords().Delete(ctx, link.ID); err != nil {
			return err
		}
	}
	return c.tx.Keywords().Delete(ctx, id)
}

func (c *cascade) publication(ctx context.Context, id uint) error {
	publication, err := c.tx.Publications().FindByID(ctx, id)
	if err != nil {
		return err
	}

	links, err := c.tx.PublicationKeywords().ListByPublication(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to list keywords of publication %d: %w", id, err)
	}
	for _, link := range links {
		if err := c.tx.PublicationKeywords().Delete(ctx, link.ID); err != nil {
			return err
		}
	}

	if err := c.tx.Publications().Delete(ctx, id); err != nil {
		return err
	}
	if publication.DocumentKey != nil {
		c.orphans = append(c.orphans, *publication.DocumentKey)
	}
	return nil
}

// remove runs step for id in its own transaction and then deletes any
// documents it orphaned. A missing root row surfaces as repository.ErrNotFound.
func (b *base) remove(ctx context.Context, step func(c *cascade, ctx context.Context, id uint) error, id uint) error {
	var orphans []string
	err := b.store.Transaction(ctx, func(tx repository.Store) error {
		c := &cascade{tx: tx}
		if err := step(c, ctx, id); err != nil {
			return err
		}
		orphans = c.orphans
		return nil
	})
	if err != nil {
		return err
	}

	b.removeDocuments(ctx, orphans)
	return nil
}
