// Package s3backup copies persistx records to an S3 bucket and restores
// them.
//
// A push uploads every record file of a service, byte for byte, as one
// snapshot under {prefix}/{snapshot}/. Snapshot IDs start with a UTC
// timestamp, so they sort oldest first:
//
//	backup, err := s3backup.NewFromConfig(ctx, "my-game-saves", "player-42")
//	if err != nil {
//	    return err
//	}
//	snap, err := backup.Push(ctx, svc)
//	...
//	latest, err := backup.Latest(ctx)
//	restored, err := backup.Restore(ctx, svc, latest, true)
//
// Credentials and region come from the default AWS configuration chain.
package s3backup
