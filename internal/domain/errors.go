package domain

import "errors"

// Erreurs de domaine (sans dépendances externes).
var (
	ErrNotFound          = errors.New("ressource introuvable")
	ErrInvalidInput      = errors.New("entrée invalide")
	ErrInvalidTransition = errors.New("transition de statut interdite")
	ErrDuplicate         = errors.New("ressource dupliquée")
	ErrSequenceConflict  = errors.New("conflit d'allocation du compteur")
	ErrPersistence       = errors.New("échec de persistance")
	ErrUnauthorized      = errors.New("non autorisé")
)
