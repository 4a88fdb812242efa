/*
go-sortlite provides a SORT (Simple Online and Realtime Tracking) multiple
object tracker for Go.  Per frame bounding box detections from any object
detector are turned into identity tagged trajectories using a constant
velocity Kalman filter per track, IoU based association solved as a linear
assignment problem and a track lifecycle controller.

The tracker lives in the tracker subpackage.  This package provides a Pool
that keeps one tracker per video stream, and helpers for class labels.

The counter, signal and render subpackages consume tracker output to count
vehicles crossing a line per lane, decide traffic signal phases and draw
overlays with GoCV.

See example code and usage in the examples subdirectory.
*/
package sortlite
